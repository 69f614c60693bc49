package model

import (
	"time"

	"github.com/passforge/passforge-go/internal/generator"
)

// Preset is a saved generator configuration. It never holds a generated password.
type Preset struct {
	ID        int64
	UserID    int64
	Name      string
	Length    int
	Selection generator.Selection
	CreatedAt time.Time
	UpdatedAt time.Time
}

// PresetRequest creates or replaces a preset.
type PresetRequest struct {
	Name      string              `json:"name"`
	Length    int                 `json:"length"`
	Selection generator.Selection `json:"selection"`
}

// PresetResponse is the API view of a preset.
type PresetResponse struct {
	ID        int64               `json:"id"`
	Name      string              `json:"name"`
	Length    int                 `json:"length"`
	Selection generator.Selection `json:"selection"`
	UpdatedAt time.Time           `json:"updated_at"`
}
