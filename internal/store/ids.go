package store

import "github.com/google/uuid"

// NewID returns a time-ordered uuid (v7). Time ordering keeps freshly created
// siblings stable under the CreatedAt/ID tie-breaks in CompareTasks.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// NewV7 only fails when the random source does; fall back to v4's
		// Must path which panics on the same condition rather than hiding it.
		return uuid.Must(uuid.NewRandom()).String()
	}
	return id.String()
}
