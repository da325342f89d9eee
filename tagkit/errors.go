package tagkit

import "errors"

// Errors
var (
	ErrUndefinedLabel = errors.New("goto names an undefined label")
	ErrDuplicateLabel = errors.New("label defined twice in the same block")
	ErrBadLayout      = errors.New("bad if/else layout")
	ErrStepLimit      = errors.New("sweep attempt exceeded its step limit")
	ErrPassLimit      = errors.New("parser exceeded its fixpoint pass ceiling")
	ErrBadRule        = errors.New("bad parser rule")
	ErrBadDefinition  = errors.New("bad definition")
	ErrNotFound       = errors.New("definition not found")
	ErrNilSequence    = errors.New("nil sequence")
)
