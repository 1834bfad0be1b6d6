package models

import "time"

// Blog rows are only consulted for ownership checks; post content and
// taxonomy live outside this service.
type Blog struct {
	ID        string
	Slug      string
	AuthorID  string
	CreatedAt time.Time
}
