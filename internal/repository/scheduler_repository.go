package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/repository/base"
)

type SchedulerRepository struct {
	*base.Repository
}

func NewSchedulerRepository(db base.DB) *SchedulerRepository {
	return &SchedulerRepository{Repository: base.NewRepository(db)}
}

// GetByCMID получает планировщик по идентификатору модуля курса
func (r *SchedulerRepository) GetByCMID(ctx context.Context, cmid int64) (*model.Scheduler, error) {
	query := `
		SELECT id, cmid, course_id, name, scale
		FROM schedulers
		WHERE cmid = $1
	`

	var s model.Scheduler
	err := r.QueryRow(ctx, query, cmid).Scan(&s.ID, &s.CMID, &s.CourseID, &s.Name, &s.Scale)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scheduler by cmid: %w", err)
	}

	return &s, nil
}

// GetScale получает именованную шкалу по id
func (r *SchedulerRepository) GetScale(ctx context.Context, id int64) (*model.Scale, error) {
	query := `SELECT id, name, items FROM scales WHERE id = $1`

	var (
		scale model.Scale
		items string
	)
	err := r.QueryRow(ctx, query, id).Scan(&scale.ID, &scale.Name, &items)
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get scale: %w", err)
	}

	scale.Items = model.ParseScaleItems(items)
	return &scale, nil
}
