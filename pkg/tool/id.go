package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-sortable record id.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
