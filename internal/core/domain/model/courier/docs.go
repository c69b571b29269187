// Package courier provides the Courier aggregate for the dispatch system.
//
// A courier carries two independent facts: presence (isOnline) and a
// persisted post-delivery cooldown gate (availableAfter). Offer eligibility
// is derived from both plus the absence of a live offer or active order,
// which is evaluated at the persistence layer rather than stored as a flag.
package courier
