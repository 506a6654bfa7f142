package config

import "github.com/pkg/errors"

var (
	ErrUnknownSolver    = errors.New("config: unrecognized solver name")
	ErrInvalidDuration  = errors.New("config: malformed or non-positive duration")
	ErrInvalidMemory    = errors.New("config: malformed or non-positive memory limit")
	ErrInvalidThreads   = errors.New("config: thread count must be a positive integer")
	ErrInvalidVerbosity = errors.New("config: verbosity must be 0, 1, or 2")
)
