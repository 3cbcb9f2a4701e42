package domain

import "errors"

// ErrSessionNotFound is returned when a session cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotAwaitingChoice is returned when a choice is submitted to a session without a pending offer.
var ErrNotAwaitingChoice = errors.New("session is not awaiting a choice")

// ErrChoiceNotOffered is returned when the submitted position is not part of the pending offer.
var ErrChoiceNotOffered = errors.New("choice not offered")

// ErrInactiveSession is returned when a choice targets a group other than the active one.
var ErrInactiveSession = errors.New("session is not active")

// ErrNoProvider is returned when the engine is driven before a graph was loaded.
var ErrNoProvider = errors.New("no dialogue graph loaded")
