package dto

type JournalRequest struct {
	Name   string `json:"name" validate:"required,min=6"`
	Prompt string `json:"prompt" validate:"required,min=6"`
}

type ResourceRequest struct {
	Title       string `json:"title" validate:"required,min=3"`
	Description string `json:"description" validate:"required"`
	URL         string `json:"url" validate:"omitempty,url"`
	Category    string `json:"category"`
}

type MentalCheckRequest struct {
	Mood  int    `json:"mood" validate:"required,min=1,max=10"`
	Notes string `json:"notes" validate:"max=1000"`
}
