package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/scheduler_grading/internal/preference"
	"github.com/Freeeeeet/scheduler_grading/internal/repository/base"
)

// PreferenceRepository хранит настройки таблиц в Postgres
type PreferenceRepository struct {
	*base.Repository
}

var _ preference.Store = (*PreferenceRepository)(nil)

func NewPreferenceRepository(db base.DB) *PreferenceRepository {
	return &PreferenceRepository{Repository: base.NewRepository(db)}
}

func (r *PreferenceRepository) Get(ctx context.Context, userID int64, gridID string) (*preference.Preference, error) {
	query := `
		SELECT sort_column, sort_desc, collapsed
		FROM grid_preferences
		WHERE user_id = $1 AND grid_id = $2
	`

	var pref preference.Preference
	err := r.QueryRow(ctx, query, userID, gridID).Scan(&pref.SortColumn, &pref.SortDesc, &pref.Collapsed)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get grid preference: %w", err)
	}

	return &pref, nil
}

func (r *PreferenceRepository) Set(ctx context.Context, userID int64, gridID string, pref preference.Preference) error {
	query := `
		INSERT INTO grid_preferences (user_id, grid_id, sort_column, sort_desc, collapsed, updated_at)
		VALUES ($1, $2, $3, $4, $5, now())
		ON CONFLICT (user_id, grid_id) DO UPDATE
		SET sort_column = EXCLUDED.sort_column,
		    sort_desc = EXCLUDED.sort_desc,
		    collapsed = EXCLUDED.collapsed,
		    updated_at = now()
	`

	collapsed := pref.Collapsed
	if collapsed == nil {
		collapsed = []string{}
	}

	if _, err := r.ExecAffected(ctx, query, userID, gridID, pref.SortColumn, pref.SortDesc, collapsed); err != nil {
		return fmt.Errorf("set grid preference: %w", err)
	}

	return nil
}
