// Package credstore provides the persistent key-value store backing the
// provisioning subsystem.
//
// The store models a small flash-backed partition: a versioned record
// file with a fixed record ("page") budget, CBOR-encoded on disk. Open
// is idempotent and distinguishes exactly two recoverable corruption
// conditions - ErrNoFreePages and ErrVersionMismatch - which callers
// recover from with an erase-then-reopen sequence (OpenRecovering does
// this). Any other Open failure indicates corruption a human must look
// at and is reported as-is.
package credstore
