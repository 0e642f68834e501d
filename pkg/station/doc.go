// Package station drives the radio's client role.
//
// The driver is a thin state reporter over the network stack: on a
// station-started notification it issues a single connect attempt, on an
// address assignment it records Connected. It never retries - reconnect
// policy belongs to the stack.
package station
