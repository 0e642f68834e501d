// Package button converts a raw, possibly-bouncing edge interrupt into a
// single logical reprovision trigger.
//
// The interrupt side (Interrupt) is strictly non-blocking and
// allocation-free: it enqueues the pin identifier into a small bounded
// mailbox and returns. A worker dequeues one identifier at a time, waits
// a fixed settle interval, then samples the pin level exactly once; any
// bounce during the window has resolved by the time of the sample.
// Confirmed presses are forwarded through a single-slot trigger mailbox,
// so duplicates arriving while one trigger is pending coalesce.
//
// A full interrupt mailbox drops new events; the condition self-clears
// as the worker drains, and correctness does not depend on every press
// being honored.
package button
