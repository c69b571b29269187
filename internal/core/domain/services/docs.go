// Package services provides domain services for the dispatch core.
//
// The package includes:
//   - CourierSelector: the pluggable candidate-selection strategy used by the
//     matching engine, with a FIFO default
//
// Selection is deliberately separated from the concurrency/state-machine
// core so ranking strategies can change without touching dispatch
// correctness.
package services
