// Package store provides byte sinks for persisting machine state: local
// files, process memory, Redis and S3. Every sink satisfies fsm.Sink and
// reports a missing id with ErrNotFound.
package store
