package domain

import "time"

// dateOf truncates t to its calendar day in UTC.
func dateOf(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NormalizeExpiryDate drops the time of day from an expiry date.
func NormalizeExpiryDate(t time.Time) time.Time {
	return dateOf(t)
}

// IsPastExpiry reports whether expiry is strictly before the calendar day of now.
// A card is still valid on its expiry day.
func IsPastExpiry(expiry, now time.Time) bool {
	return dateOf(expiry).Before(dateOf(now))
}

// InitialStatus is the status assigned to a card created at now.
func InitialStatus(expiry, now time.Time) Status {
	if IsPastExpiry(expiry, now) {
		return StatusExpired
	}
	return StatusActive
}

// ApplyExpiry forces the card to EXPIRED when its expiry date has passed.
// It reports whether the status changed. Every load that precedes a mutation
// calls it first, so its outcome overrides any transition requested afterwards.
func (c *Card) ApplyExpiry(now time.Time) bool {
	if c.Status == StatusExpired || !IsPastExpiry(c.ExpiryDate, now) {
		return false
	}
	c.Status = StatusExpired
	c.UpdatedAt = now
	return true
}

// Activate moves a BLOCKED or ACTIVE card to ACTIVE.
func (c *Card) Activate(now time.Time) error {
	c.ApplyExpiry(now)
	if c.Status == StatusExpired {
		return &CardExpiredError{CardID: c.ID}
	}
	c.Status = StatusActive
	c.UpdatedAt = now
	return nil
}

// Block moves an ACTIVE or BLOCKED card to BLOCKED.
func (c *Card) Block(now time.Time) error {
	c.ApplyExpiry(now)
	if c.Status == StatusExpired {
		return &CardExpiredError{CardID: c.ID}
	}
	c.Status = StatusBlocked
	c.UpdatedAt = now
	return nil
}

// Transition applies the transition to target.
func (c *Card) Transition(target Status, now time.Time) error {
	switch target {
	case StatusActive:
		return c.Activate(now)
	case StatusBlocked:
		return c.Block(now)
	default:
		return ErrInvalidTargetStatus
	}
}

// EnsureTransferable returns a *CardNotActiveError unless the card is ACTIVE.
func (c *Card) EnsureTransferable(side Side) error {
	if c.Status != StatusActive {
		return &CardNotActiveError{CardID: c.ID, Side: side, Status: c.Status}
	}
	return nil
}
