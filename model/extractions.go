package model

import "context"

// Extraction describes a single channel extraction.
type Extraction struct {
	ID         int
	Source     string
	Channel    int
	Resolution string
	InputURL   string
	OutputURL  string
}

// ExtractionsRepository describes methods for working with DB.
type ExtractionsRepository interface {
	Save(context.Context, Extraction) (int, error)
	All(context.Context) ([]Extraction, error)
	GetOne(context.Context, int) (Extraction, error)
}
