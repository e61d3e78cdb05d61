package store

import "errors"

var (
	// ErrNotFound indicates that nothing is stored under the id.
	ErrNotFound = errors.New("state not found")
	// ErrEmptyID indicates that an empty id was given.
	ErrEmptyID = errors.New("id is required")
	// ErrInvalidID indicates an id that would escape the sink's base directory.
	ErrInvalidID = errors.New("id must be a local path")
	// ErrInvalidConfig indicates a sink configuration missing required fields.
	ErrInvalidConfig = errors.New("invalid sink configuration")

	ErrFailedToParseRedisURL = errors.New("failed to parse redis connection string")
	ErrRedisNotReady         = errors.New("redis did not become ready within the given time period")
	ErrFailedToLoadAWSConfig = errors.New("failed to load AWS config")
)
