// Package queue provides the dispatch queue Entry aggregate and its status
// machine. One entry represents one order's pending need for a courier
// assignment and carries the offer/accept/reject/timeout protocol state:
// the currently offered courier, the rebroadcast attempt counter and the
// offer expiry.
//
// Key business rules:
//   - An order has at most one live (Queued or Offered) entry at any time
//   - A courier holds at most one engaged (Offered or Assigned) entry at any time
//   - Rejection and expiry re-queue the entry with the attempt counter
//     incremented; a configurable cap moves it to the terminal Exhausted
//     status instead of rebroadcasting forever
//   - A courier cancellation resets the entry with the attempt counter cleared
//
// The uniqueness rules are enforced at the persistence layer; the aggregate
// enforces the transition discipline.
package queue
