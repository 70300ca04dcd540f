package setlist

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned by the store when a row does not exist.
var ErrNotFound = errors.New("not found")

// ErrIndexOutOfRange is returned for reorder indices that do not address
// an item in the sequence. It marks a caller error, not a store failure.
var ErrIndexOutOfRange = errors.New("index out of range")

// FetchError means a collection load failed and no data was mutated.
type FetchError struct {
	SetlistID string
	Err       error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("failed to load songs for setlist %s: %v", e.SetlistID, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// PersistError means a single non-ordering mutation failed and the
// in-memory view is unchanged.
type PersistError struct {
	Op     string // "insert", "remove", "update"
	SongID string
	Err    error
}

func (e *PersistError) Error() string {
	if e.SongID == "" {
		return fmt.Sprintf("failed to %s song: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("failed to %s song %s: %v", e.Op, e.SongID, e.Err)
}

func (e *PersistError) Unwrap() error { return e.Err }

// ReorderError means one or more position writes of a reorder failed. By
// the time the caller sees it, the in-memory view has been corrected from
// the store (the optimistic order was discarded).
type ReorderError struct {
	SetlistID string
	FailedIDs []string
	Err       error
}

func (e *ReorderError) Error() string {
	return fmt.Sprintf("reorder of setlist %s failed for %d song(s), local order reverted: %v",
		e.SetlistID, len(e.FailedIDs), e.Err)
}

func (e *ReorderError) Unwrap() error { return e.Err }
