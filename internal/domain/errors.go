package domain

import "errors"

var (
	ErrMissingCredential = errors.New("missing credential")
	ErrGenerationFailed  = errors.New("generation returned no image payload")
	ErrEditFailed        = errors.New("edit returned no image payload")
	ErrFinalizeFailed    = errors.New("finalization returned no image payload")
	ErrJobTimeout        = errors.New("video job timed out")
	ErrJobFailed         = errors.New("video job failed")
	ErrUnparsableOutput  = errors.New("unparsable model output")
	ErrLogoRequired      = errors.New("logo required")
	ErrNotFound          = errors.New("not found")
)
