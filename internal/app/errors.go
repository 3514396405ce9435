package service

import (
	"errors"
)

// Sentinel error kinds for this package. These allow errors.Is/As from callers.
var (
	ErrNotConfigured = errors.New("service missing required collaborator")
	ErrUnknownMode   = errors.New("unknown ranking mode")
	ErrNoSoundtrack  = errors.New("no soundtrack available")
)
