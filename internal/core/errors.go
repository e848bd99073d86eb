package core

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by a service either wraps one of
// these or is an internal failure.
var (
	ErrInvalidArgument = errors.New("invalid argument")
	ErrUnauthenticated = errors.New("unauthenticated")
	ErrForbidden       = errors.New("forbidden")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
)

// Specific errors.
var (
	ErrInvalidID             = fmt.Errorf("%w: malformed id", ErrInvalidArgument)
	ErrInvalidDateRange      = fmt.Errorf("%w: endDate must not be before startDate", ErrInvalidArgument)
	ErrInvalidStatus         = fmt.Errorf("%w: status must be one of Not Started, In Progress, Completed", ErrInvalidArgument)
	ErrInvalidProgress       = fmt.Errorf("%w: progress must be between 0 and 100", ErrInvalidArgument)
	ErrInvalidRole           = fmt.Errorf("%w: role must be user or admin", ErrInvalidArgument)
	ErrMissingEmail          = fmt.Errorf("%w: token carries no email", ErrUnauthenticated)
	ErrNotOwner              = fmt.Errorf("%w: only the owner or an admin may modify this resource", ErrForbidden)
	ErrNotParticipant        = fmt.Errorf("%w: only the participant may update this record", ErrForbidden)
	ErrRoleChangeForbidden   = fmt.Errorf("%w: only an admin may change roles", ErrForbidden)
	ErrChallengeNotFound     = fmt.Errorf("challenge %w", ErrNotFound)
	ErrTipNotFound           = fmt.Errorf("tip %w", ErrNotFound)
	ErrEventNotFound         = fmt.Errorf("event %w", ErrNotFound)
	ErrUserNotFound          = fmt.Errorf("user %w", ErrNotFound)
	ErrParticipationNotFound = fmt.Errorf("user challenge %w", ErrNotFound)
	ErrAlreadyJoined         = fmt.Errorf("%w: user already joined this challenge", ErrConflict)
	ErrEventFull             = fmt.Errorf("%w: event is full", ErrConflict)
)
