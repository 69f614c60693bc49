package model

import (
	"encoding/json"
	"strings"

	"github.com/passforge/passforge-go/internal/generator"
)

// GenerateRequest is the body of a generate call.
// Length is kept raw so 8, 8.0, "8" and "eight" all reach the same length validation.
// Nil flags fall back to the default selection.
type GenerateRequest struct {
	Length    json.RawMessage `json:"length"`
	Lowercase *bool           `json:"lowercase"`
	Uppercase *bool           `json:"uppercase"`
	Numbers   *bool           `json:"numbers"`
	Symbols   *bool           `json:"symbols"`
}

// LengthText returns the length as the user typed it, or "" when absent.
func (r GenerateRequest) LengthText() string {
	raw := strings.TrimSpace(string(r.Length))
	if raw == "" || raw == "null" {
		return ""
	}
	var s string
	if err := json.Unmarshal(r.Length, &s); err == nil {
		return s
	}
	return raw
}

// Selection resolves the request flags against the default selection.
func (r GenerateRequest) Selection() generator.Selection {
	def := generator.DefaultSelection()
	return generator.Selection{
		Lowercase: boolOrDefault(r.Lowercase, def.Lowercase),
		Uppercase: boolOrDefault(r.Uppercase, def.Uppercase),
		Numbers:   boolOrDefault(r.Numbers, def.Numbers),
		Symbols:   boolOrDefault(r.Symbols, def.Symbols),
	}
}

// GenerateResponse carries a freshly generated password.
type GenerateResponse struct {
	Password     string `json:"password"`
	Length       int    `json:"length"`
	AlphabetSize int    `json:"alphabet_size"`
}

// ClassInfo describes one character class.
type ClassInfo struct {
	Name  string `json:"name"`
	Chars string `json:"chars"`
}

// OptionsResponse describes what the generator accepts.
type OptionsResponse struct {
	MinLength        int                 `json:"min_length"`
	MaxLength        int                 `json:"max_length"`
	Classes          []ClassInfo         `json:"classes"`
	DefaultSelection generator.Selection `json:"default_selection"`
}

func boolOrDefault(p *bool, fallback bool) bool {
	if p == nil {
		return fallback
	}
	return *p
}
