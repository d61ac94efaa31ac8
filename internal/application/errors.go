package application

import "errors"

var (
	// ErrTransientFetch marks network failures and 5xx/429 provider
	// responses. Safe to retry externally; never retried internally.
	ErrTransientFetch = errors.New("transient fetch error")
	// ErrInvalidRequest marks 4xx provider responses and bad inputs.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrParse marks provider payloads that do not match the expected shape.
	ErrParse = errors.New("parse error")
	// ErrStorage marks read/write failures on the persisted table.
	ErrStorage = errors.New("storage error")

	ErrNotFound = errors.New("not found")
)
