package models

import "time"

// ResourceKind distinguishes the resource collections sharing one shape.
type ResourceKind string

const (
	MentalResource  ResourceKind = "mental"
	SupportResource ResourceKind = "support"
)

// Resource is a piece of mental-health content or a support contact.
type Resource struct {
	ID          string       `json:"id"`
	Kind        ResourceKind `json:"kind"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	URL         string       `json:"url,omitempty"`
	Category    string       `json:"category,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
}
