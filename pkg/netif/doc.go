// Package netif defines the network stack boundary.
//
// The radio, its driver and its reconnect policy are external
// collaborators behind the Stack interface; this package specifies only
// the operations the agent consumes (enable station mode, connect,
// disconnect, read the MAC address) and the notifications it observes
// (StationStarted, StationGotAddress) as tagged variant types.
//
// SimStack is a host-side simulation used by the agent binary and the
// package tests; it reports connectivity immediately and never fails.
package netif
