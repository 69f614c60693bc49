// Package generator builds random passwords from a selection of character classes.
package generator

import (
	"errors"
	"fmt"
	"strings"
)

const (
	uppercaseChars = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	lowercaseChars = "abcdefghijklmnopqrstuvwxyz"
	digitChars     = "0123456789"
	symbolChars    = "!@#$%^&*|?_-+="

	DefaultMinLength = 4
	DefaultMaxLength = 16
)

var (
	ErrInvalidLength = errors.New("invalid password length")
	ErrEmptyAlphabet = errors.New("at least one character class must be selected")
)

// Class is one of the fixed character categories a selection can include.
type Class int

const (
	Uppercase Class = iota
	Lowercase
	Digits
	Symbols
)

// Classes returns every class in alphabet order.
func Classes() []Class {
	return []Class{Uppercase, Lowercase, Digits, Symbols}
}

// Chars returns the exact characters drawn for the class.
func (c Class) Chars() string {
	switch c {
	case Uppercase:
		return uppercaseChars
	case Lowercase:
		return lowercaseChars
	case Digits:
		return digitChars
	case Symbols:
		return symbolChars
	}
	return ""
}

func (c Class) String() string {
	switch c {
	case Uppercase:
		return "uppercase"
	case Lowercase:
		return "lowercase"
	case Digits:
		return "numbers"
	case Symbols:
		return "symbols"
	}
	return fmt.Sprintf("Class(%d)", int(c))
}

// Selection holds the enabled character classes for one generation call.
type Selection struct {
	Lowercase bool `json:"lowercase"`
	Uppercase bool `json:"uppercase"`
	Numbers   bool `json:"numbers"`
	Symbols   bool `json:"symbols"`
}

// DefaultSelection is the initial and post-reset state: lowercase only.
func DefaultSelection() Selection {
	return Selection{Lowercase: true}
}

// Has reports whether class c is enabled.
func (s Selection) Has(c Class) bool {
	switch c {
	case Uppercase:
		return s.Uppercase
	case Lowercase:
		return s.Lowercase
	case Digits:
		return s.Numbers
	case Symbols:
		return s.Symbols
	}
	return false
}

// With returns a copy of s with class c switched on or off.
func (s Selection) With(c Class, on bool) Selection {
	switch c {
	case Uppercase:
		s.Uppercase = on
	case Lowercase:
		s.Lowercase = on
	case Digits:
		s.Numbers = on
	case Symbols:
		s.Symbols = on
	}
	return s
}

// Enabled lists the enabled classes in alphabet order.
func (s Selection) Enabled() []Class {
	var out []Class
	for _, c := range Classes() {
		if s.Has(c) {
			out = append(out, c)
		}
	}
	return out
}

// Empty reports whether no class is enabled.
func (s Selection) Empty() bool {
	return !s.Lowercase && !s.Uppercase && !s.Numbers && !s.Symbols
}

// BuildAlphabet concatenates the characters of every enabled class.
// An empty selection yields an empty string.
func BuildAlphabet(sel Selection) string {
	var sb strings.Builder
	for _, c := range sel.Enabled() {
		sb.WriteString(c.Chars())
	}
	return sb.String()
}

// Generator produces passwords within a fixed length range.
// It holds no mutable state and is safe for concurrent use when its Source is.
type Generator struct {
	minLength int
	maxLength int
	source    Source
}

// Option configures a Generator.
type Option func(*Generator)

// WithLengthRange sets the inclusive range of accepted lengths.
func WithLengthRange(min, max int) Option {
	return func(g *Generator) {
		g.minLength = min
		g.maxLength = max
	}
}

// WithSource replaces the default crypto/rand source.
func WithSource(src Source) Option {
	return func(g *Generator) {
		g.source = src
	}
}

// NewGenerator creates a Generator. It panics on a nonsensical length range.
func NewGenerator(opts ...Option) *Generator {
	g := &Generator{
		minLength: DefaultMinLength,
		maxLength: DefaultMaxLength,
		source:    CryptoSource{},
	}
	for _, opt := range opts {
		opt(g)
	}

	if g.minLength < 1 || g.minLength > g.maxLength {
		panic(fmt.Sprintf("generator: invalid length range [%d, %d]", g.minLength, g.maxLength))
	}
	if g.source == nil {
		g.source = CryptoSource{}
	}
	return g
}

// Bounds returns the inclusive length range.
func (g *Generator) Bounds() (min, max int) {
	return g.minLength, g.maxLength
}

// ValidateLength checks length against the generator's range.
func (g *Generator) ValidateLength(length int) error {
	if length < g.minLength {
		return fmt.Errorf("%w: length must be at least %d", ErrInvalidLength, g.minLength)
	}
	if length > g.maxLength {
		return fmt.Errorf("%w: length must be at most %d", ErrInvalidLength, g.maxLength)
	}
	return nil
}

// Generate returns a password of exactly length characters drawn uniformly
// and independently from the alphabet of sel.
func (g *Generator) Generate(length int, sel Selection) (string, error) {
	if err := g.ValidateLength(length); err != nil {
		return "", err
	}

	alphabet := BuildAlphabet(sel)
	if alphabet == "" {
		return "", ErrEmptyAlphabet
	}

	buf := make([]byte, length)
	for i := range buf {
		idx, err := g.source.Intn(len(alphabet))
		if err != nil {
			return "", fmt.Errorf("drawing character: %w", err)
		}
		if idx < 0 || idx >= len(alphabet) {
			return "", fmt.Errorf("drawing character: source returned %d outside [0, %d)", idx, len(alphabet))
		}
		buf[i] = alphabet[idx]
	}

	return string(buf), nil
}

var defaultGenerator = NewGenerator()

// Generate uses a generator with the default range and crypto/rand.
func Generate(length int, sel Selection) (string, error) {
	return defaultGenerator.Generate(length, sel)
}
