package domain

import "errors"

// Domain errors returned by the allocation engine and lot registry.
// All of these are recoverable and map to client-facing responses; anything
// else bubbling out of a service is an infrastructure fault.
var (
	ErrAlreadyReserved = errors.New("user already holds an active reservation")
	ErrLotFull         = errors.New("no available spots in this lot")
	ErrInvalidInterval = errors.New("exit time precedes entry time")
	ErrOrphanSpot      = errors.New("occupied spot has no open ledger entry")
	ErrHasHistory      = errors.New("lot has reservation history and cannot be deleted")
	ErrNotFound        = errors.New("record not found")
)
