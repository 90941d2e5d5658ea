package models

import "time"

// Tournament представляет турнир по швейцарской системе.
type Tournament struct {
	ID          int       `json:"id" db:"id"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

// Title returns the description or a generated fallback.
func (t Tournament) Title() string {
	if t.Description != nil && *t.Description != "" {
		return *t.Description
	}
	return "tournament"
}
