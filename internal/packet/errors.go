package packet

import "errors"

var (
	// ErrInvalidPool is returned for a non-positive amount or recipient count.
	ErrInvalidPool = errors.New("invalid pool")
	// ErrPoolExhausted is returned when every recipient has been paid.
	ErrPoolExhausted = errors.New("pool exhausted")

	ErrPacketNotFound = errors.New("packet not found")
	ErrPacketExpired  = errors.New("packet expired")
	ErrAlreadyClaimed = errors.New("already claimed")
)
