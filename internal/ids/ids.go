package ids

import (
	"strings"

	"github.com/segmentio/ksuid"
)

// New returns a sortable unique identifier for database rows.
func New() string {
	return ksuid.New().String()
}

// Username returns a short random handle. Usernames are stored lowercase,
// so only the random tail of the ksuid is used; the unique index on the
// users table is the collision guard.
func Username() string {
	id := ksuid.New().String()
	return strings.ToLower(id[len(id)-10:])
}
