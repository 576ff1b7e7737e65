package models

import "time"

// JournalEntry is a single user-owned journal record.
type JournalEntry struct {
	ID     string    `json:"id"`
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Prompt string    `json:"prompt"`
	Date   time.Time `json:"date"`
}

// JournalType is a seeded journaling template.
type JournalType struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}
