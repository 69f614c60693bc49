package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/passforge/passforge-go/internal/generator"
	"github.com/passforge/passforge-go/internal/model"
	"github.com/passforge/passforge-go/internal/repository"
)

const maxPresetNameLength = 64

var (
	ErrPresetNameRequired = errors.New("preset name is required")
	ErrPresetNameTooLong  = errors.New("preset name must be at most 64 characters")
	ErrPresetNameTaken    = errors.New("preset name already taken")
	ErrPresetNotFound     = errors.New("preset not found")
)

// PresetService manages saved generator configurations.
type PresetService struct {
	repo *repository.PresetRepository
	gen  *GeneratorService
}

// NewPresetService creates a new PresetService.
func NewPresetService(repo *repository.PresetRepository, gen *GeneratorService) *PresetService {
	return &PresetService{repo: repo, gen: gen}
}

// Create validates and stores a new preset for userID.
func (s *PresetService) Create(ctx context.Context, userID int64, req model.PresetRequest) (model.PresetResponse, error) {
	p, err := s.validate(req)
	if err != nil {
		return model.PresetResponse{}, err
	}
	p.UserID = userID

	if err := s.repo.Create(ctx, p); err != nil {
		return model.PresetResponse{}, mapPresetError(err)
	}

	slog.Debug("preset created", "user_id", userID, "preset_id", p.ID)
	return toPresetResponse(*p), nil
}

// Update replaces an existing preset.
func (s *PresetService) Update(ctx context.Context, userID, id int64, req model.PresetRequest) (model.PresetResponse, error) {
	p, err := s.validate(req)
	if err != nil {
		return model.PresetResponse{}, err
	}
	p.ID = id
	p.UserID = userID

	if err := s.repo.Update(ctx, p); err != nil {
		return model.PresetResponse{}, mapPresetError(err)
	}

	stored, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return model.PresetResponse{}, mapPresetError(err)
	}
	return toPresetResponse(*stored), nil
}

// List returns every preset owned by userID.
func (s *PresetService) List(ctx context.Context, userID int64) ([]model.PresetResponse, error) {
	presets, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]model.PresetResponse, len(presets))
	for i, p := range presets {
		result[i] = toPresetResponse(p)
	}
	return result, nil
}

// Delete removes a preset.
func (s *PresetService) Delete(ctx context.Context, userID, id int64) error {
	return mapPresetError(s.repo.Delete(ctx, userID, id))
}

// Generate produces a password from a stored preset.
func (s *PresetService) Generate(ctx context.Context, userID, id int64) (model.GenerateResponse, error) {
	p, err := s.repo.Get(ctx, userID, id)
	if err != nil {
		return model.GenerateResponse{}, mapPresetError(err)
	}
	return s.gen.generate(p.Length, p.Selection)
}

// validate checks a request against the current generator bounds. Bounds can
// change between deployments, so stored presets are validated again on Generate.
func (s *PresetService) validate(req model.PresetRequest) (*model.Preset, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPresetNameRequired
	}
	if utf8.RuneCountInString(name) > maxPresetNameLength {
		return nil, ErrPresetNameTooLong
	}
	if err := s.gen.gen.ValidateLength(req.Length); err != nil {
		return nil, err
	}
	if req.Selection.Empty() {
		return nil, generator.ErrEmptyAlphabet
	}

	return &model.Preset{Name: name, Length: req.Length, Selection: req.Selection}, nil
}

func mapPresetError(err error) error {
	switch {
	case errors.Is(err, repository.ErrPresetNotFound):
		return ErrPresetNotFound
	case errors.Is(err, repository.ErrDuplicatePreset):
		return ErrPresetNameTaken
	}
	return err
}

func toPresetResponse(p model.Preset) model.PresetResponse {
	return model.PresetResponse{
		ID:        p.ID,
		Name:      p.Name,
		Length:    p.Length,
		Selection: p.Selection,
		UpdatedAt: p.UpdatedAt,
	}
}
