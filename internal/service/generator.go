package service

import (
	"github.com/passforge/passforge-go/internal/generator"
	"github.com/passforge/passforge-go/internal/model"
)

// GeneratorService handles password generation requests.
type GeneratorService struct {
	gen *generator.Generator
}

// NewGeneratorService creates a new GeneratorService.
func NewGeneratorService(gen *generator.Generator) *GeneratorService {
	return &GeneratorService{gen: gen}
}

// Generate validates the raw request and produces a password.
func (s *GeneratorService) Generate(req model.GenerateRequest) (model.GenerateResponse, error) {
	length, err := s.gen.ParseLength(req.LengthText())
	if err != nil {
		return model.GenerateResponse{}, err
	}
	return s.generate(length, req.Selection())
}

func (s *GeneratorService) generate(length int, sel generator.Selection) (model.GenerateResponse, error) {
	password, err := s.gen.Generate(length, sel)
	if err != nil {
		return model.GenerateResponse{}, err
	}

	return model.GenerateResponse{
		Password:     password,
		Length:       len(password),
		AlphabetSize: len(generator.BuildAlphabet(sel)),
	}, nil
}

// Options describes the accepted lengths and character classes.
func (s *GeneratorService) Options() model.OptionsResponse {
	min, max := s.gen.Bounds()

	classes := generator.Classes()
	info := make([]model.ClassInfo, len(classes))
	for i, c := range classes {
		info[i] = model.ClassInfo{Name: c.String(), Chars: c.Chars()}
	}

	return model.OptionsResponse{
		MinLength:        min,
		MaxLength:        max,
		Classes:          info,
		DefaultSelection: generator.DefaultSelection(),
	}
}
