package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/passforge/passforge-go/internal/model"
)

var (
	ErrPresetNotFound  = errors.New("preset not found")
	ErrDuplicatePreset = errors.New("preset name already exists")
)

const presetColumns = `id, user_id, name, length, lowercase, uppercase, numbers, symbols, created_at, updated_at`

// PresetRepository persists generator presets.
type PresetRepository struct {
	db *sql.DB
}

func NewPresetRepository(db *sql.DB) *PresetRepository {
	return &PresetRepository{db: db}
}

// Create inserts p and sets its generated ID.
func (r *PresetRepository) Create(ctx context.Context, p *model.Preset) error {
	result, err := r.db.ExecContext(ctx,
		`INSERT INTO presets (user_id, name, length, lowercase, uppercase, numbers, symbols)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Name, p.Length,
		p.Selection.Lowercase, p.Selection.Uppercase, p.Selection.Numbers, p.Selection.Symbols,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicatePreset
		}
		return err
	}

	id, err := result.LastInsertId()
	if err != nil {
		return err
	}
	p.ID = id
	return nil
}

// Update replaces name, length and selection of the preset owned by p.UserID.
func (r *PresetRepository) Update(ctx context.Context, p *model.Preset) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE presets SET name = ?, length = ?, lowercase = ?, uppercase = ?, numbers = ?, symbols = ?
		WHERE id = ? AND user_id = ?`,
		p.Name, p.Length,
		p.Selection.Lowercase, p.Selection.Uppercase, p.Selection.Numbers, p.Selection.Symbols,
		p.ID, p.UserID,
	)
	if err != nil {
		if isDuplicateEntryError(err) {
			return ErrDuplicatePreset
		}
		return err
	}
	return requireAffected(result)
}

// Get retrieves one preset owned by userID.
func (r *PresetRepository) Get(ctx context.Context, userID, id int64) (*model.Preset, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE id = ? AND user_id = ?`, id, userID)

	p, err := scanPreset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPresetNotFound
		}
		return nil, err
	}
	return p, nil
}

// ListByUser returns a user's presets ordered by name.
func (r *PresetRepository) ListByUser(ctx context.Context, userID int64) ([]model.Preset, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+presetColumns+` FROM presets WHERE user_id = ? ORDER BY name`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var presets []model.Preset
	for rows.Next() {
		p, err := scanPreset(rows)
		if err != nil {
			return nil, err
		}
		presets = append(presets, *p)
	}
	return presets, rows.Err()
}

// Delete removes a preset owned by userID.
func (r *PresetRepository) Delete(ctx context.Context, userID, id int64) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM presets WHERE id = ? AND user_id = ?`, id, userID)
	if err != nil {
		return err
	}
	return requireAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPreset(s rowScanner) (*model.Preset, error) {
	p := &model.Preset{}
	err := s.Scan(
		&p.ID, &p.UserID, &p.Name, &p.Length,
		&p.Selection.Lowercase, &p.Selection.Uppercase, &p.Selection.Numbers, &p.Selection.Symbols,
		&p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func requireAffected(result sql.Result) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrPresetNotFound
	}
	return nil
}
