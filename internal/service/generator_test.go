package service

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/passforge/passforge-go/internal/generator"
	"github.com/passforge/passforge-go/internal/model"
)

func boolPtr(b bool) *bool { return &b }

func newTestGeneratorService() *GeneratorService {
	return NewGeneratorService(generator.NewGenerator(generator.WithSource(generator.NewSeededSource(1))))
}

func TestGenerate_DefaultSelection(t *testing.T) {
	svc := newTestGeneratorService()
	resp, err := svc.Generate(model.GenerateRequest{Length: json.RawMessage(`8`)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.Length != 8 || len(resp.Password) != 8 {
		t.Errorf("expected length 8, got %d (%q)", resp.Length, resp.Password)
	}
	if resp.AlphabetSize != 26 {
		t.Errorf("expected alphabet size 26, got %d", resp.AlphabetSize)
	}
	if strings.Trim(resp.Password, "abcdefghijklmnopqrstuvwxyz") != "" {
		t.Errorf("default selection produced non-lowercase password %q", resp.Password)
	}
}

func TestGenerate_MixedClasses(t *testing.T) {
	svc := newTestGeneratorService()
	resp, err := svc.Generate(model.GenerateRequest{
		Length:    json.RawMessage(`"8"`),
		Lowercase: boolPtr(true),
		Uppercase: boolPtr(true),
		Numbers:   boolPtr(true),
		Symbols:   boolPtr(false),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.AlphabetSize != 62 {
		t.Errorf("expected alphabet size 62, got %d", resp.AlphabetSize)
	}
	for _, c := range resp.Password {
		if !((c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z') || (c >= '0' && c <= '9')) {
			t.Errorf("unexpected character %q in [A-Za-z0-9] password", c)
		}
	}
}

func TestGenerate_InvalidLength(t *testing.T) {
	svc := newTestGeneratorService()

	for _, raw := range []string{``, `null`, `0`, `-1`, `17`, `"abc"`} {
		_, err := svc.Generate(model.GenerateRequest{Length: json.RawMessage(raw)})
		if !errors.Is(err, generator.ErrInvalidLength) {
			t.Errorf("length %s: expected ErrInvalidLength, got %v", raw, err)
		}
	}
}

func TestGenerate_NoCharacterClasses(t *testing.T) {
	svc := newTestGeneratorService()
	_, err := svc.Generate(model.GenerateRequest{
		Length:    json.RawMessage(`12`),
		Lowercase: boolPtr(false),
	})
	if !errors.Is(err, generator.ErrEmptyAlphabet) {
		t.Fatalf("expected ErrEmptyAlphabet, got %v", err)
	}
}

func TestOptions(t *testing.T) {
	svc := NewGeneratorService(generator.NewGenerator(generator.WithLengthRange(6, 32)))
	opts := svc.Options()

	if opts.MinLength != 6 || opts.MaxLength != 32 {
		t.Errorf("bounds = [%d, %d], want [6, 32]", opts.MinLength, opts.MaxLength)
	}
	if len(opts.Classes) != 4 || opts.Classes[0].Name != "uppercase" || opts.Classes[3].Chars != "!@#$%^&*|?_-+=" {
		t.Errorf("unexpected classes: %+v", opts.Classes)
	}
	if opts.DefaultSelection != generator.DefaultSelection() {
		t.Errorf("default selection = %+v", opts.DefaultSelection)
	}
}
