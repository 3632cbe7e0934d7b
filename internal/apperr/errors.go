package apperr

import "errors"

var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	// ErrStorage marks artifact-store read/write failures so the
	// orchestrator can decide between skipping a document and aborting.
	ErrStorage = errors.New("storage failure")
)
