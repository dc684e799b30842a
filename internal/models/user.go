package models

import "time"

// User is a player. Authentication lives outside this module; a user is
// only ever referenced by id and shown by name.
type User struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
