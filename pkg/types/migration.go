package types

import (
	"errors"
	"time"
)

// MigrationRecord tracks one copy of the data and config trees to a new
// location. Verified is set only after the destination has been compared
// against the source; until then the source is authoritative and is never
// deleted by the migration itself.
type MigrationRecord struct {
	ID           string    `json:"id"`
	SourceData   string    `json:"source_data"`
	SourceConfig string    `json:"source_config"`
	DestData     string    `json:"dest_data"`
	DestConfig   string    `json:"dest_config"`
	StartedAt    time.Time `json:"started_at"`
	CompletedAt  time.Time `json:"completed_at,omitzero"`
	Verified     bool      `json:"verified"`
	Files        int       `json:"files"`
	Bytes        int64     `json:"bytes"`
}

// Migration errors. All are recoverable: the migration is left unverified
// and may be retried by the user; source data is never touched.
var (
	// ErrDestinationOccupied means the destination already holds a
	// database file and the caller did not force the copy.
	ErrDestinationOccupied = errors.New("destination already contains a database")

	// ErrPartialCopy means the copy aborted mid-way (disk full,
	// permission denied). The destination holds incomplete data.
	ErrPartialCopy = errors.New("migration copy incomplete")

	// ErrVerificationMismatch means source and destination disagreed on
	// file counts or sizes after a copy that reported success, which
	// signals concurrent external modification.
	ErrVerificationMismatch = errors.New("migration verification mismatch")
)
