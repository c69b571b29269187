package courier

import (
	"errors"
	"time"

	"dispatch/internal/core/domain/model/kernel"
	"dispatch/internal/pkg/errs"
	"dispatch/internal/pkg/guard"
)

var (
	// ErrNameIsRequired is returned when attempting to create a courier without a name.
	ErrNameIsRequired = errs.NewValueIsRequiredError("name")
	// ErrCourierIsNotConstructed is returned when using an improperly initialized Courier.
	ErrCourierIsNotConstructed = errors.New("Courier must be created via NewCourier constructor")
)

// Courier represents one delivery agent.
//
// The aggregate deliberately keeps two separate facts that a naive model
// conflates into one boolean:
//   - isOnline: connectivity/presence, toggled by the courier's device
//   - availableAfter: a persisted cooldown gate set after a completed delivery
//
// Whether the courier may receive new offers is *derived*: online, past the
// cooldown gate, and not engaged on a live offer or active order. The last
// part lives in the order and dispatch-queue records, so it is computed by
// the availability query rather than stored here. A courier who drops
// offline mid-delivery therefore stays distinguishable from one who
// finished.
type Courier struct {
	// id uniquely identifies the courier
	id kernel.UUID
	// name is the human-readable name of the courier
	name string
	// isOnline reflects connectivity/presence only
	isOnline bool
	// availableAfter gates offer eligibility after a delivered order.
	// Persisted so a process restart does not lose a pending cooldown.
	availableAfter time.Time
	// guard ensures the courier was properly constructed
	guard guard.ConstructorGuard
}

// NewCourier creates a new Courier with the specified identity.
// New couriers start offline with no cooldown pending.
//
// Parameters:
//   - id: unique identifier for the courier
//   - name: human-readable name (must be non-empty)
//
// Returns a validation error if the ID is invalid or the name is empty.
func NewCourier(id kernel.UUID, name string) (*Courier, error) {
	c := &Courier{
		guard: guard.NewConstructorGuard(),
	}

	if err := errors.Join(
		c.setID(id),
		c.setName(name),
	); err != nil {
		return nil, err
	}

	return c, nil
}

// RestoreCourier reconstructs a Courier aggregate from persistent storage,
// including its presence flag and cooldown gate.
func RestoreCourier(id kernel.UUID, name string, isOnline bool, availableAfter time.Time) (*Courier, error) {
	c, err := NewCourier(id, name)
	if err != nil {
		return nil, err
	}

	c.isOnline = isOnline
	c.availableAfter = availableAfter
	return c, nil
}

// Validate ensures the Courier instance was properly constructed.
func (c *Courier) Validate() error {
	if c == nil {
		return ErrCourierIsNotConstructed
	}

	return c.guard.Validate(ErrCourierIsNotConstructed)
}

// IsEqual compares two couriers by their unique identifiers.
func (c *Courier) IsEqual(other *Courier) bool {
	return other != nil && c.id.IsEqual(other.id)
}

// ID returns the courier's unique identifier.
func (c *Courier) ID() kernel.UUID {
	return c.id
}

// Name returns the courier's human-readable name.
func (c *Courier) Name() string {
	return c.name
}

// IsOnline reports the courier's connectivity/presence.
func (c *Courier) IsOnline() bool {
	return c.isOnline
}

// AvailableAfter returns the cooldown gate. The courier is not offer-eligible
// before this instant. The zero value means no cooldown is pending.
func (c *Courier) AvailableAfter() time.Time {
	return c.availableAfter
}

// GoOnline marks the courier as present. Idempotent.
func (c *Courier) GoOnline() {
	c.isOnline = true
}

// GoOffline marks the courier as absent. Idempotent. An in-flight delivery
// is unaffected; presence and engagement are independent facts.
func (c *Courier) GoOffline() {
	c.isOnline = false
}

// BeginCooldown gates the courier out of the offer pool until the given
// instant. Called after a delivered order so the courier is not instantly
// re-offered mid-trip-wrap-up.
func (c *Courier) BeginCooldown(until time.Time) {
	c.availableAfter = until
}

// ClearCooldown removes any pending cooldown gate. Used when the courier is
// freed by a cancellation and must re-enter the pool immediately.
func (c *Courier) ClearCooldown() {
	c.availableAfter = time.Time{}
}

// IsWithinCooldown reports whether the cooldown gate is still in effect at
// the given instant.
func (c *Courier) IsWithinCooldown(now time.Time) bool {
	return now.Before(c.availableAfter)
}

func (c *Courier) setID(id kernel.UUID) error {
	if err := id.Validate(); err != nil {
		return err
	}
	c.id = id
	return nil
}

func (c *Courier) setName(name string) error {
	if name == "" {
		return ErrNameIsRequired
	}
	c.name = name
	return nil
}
