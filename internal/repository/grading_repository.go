package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/repository/base"
)

// GradingRepository выборки для обзора оценок
type GradingRepository struct {
	*base.Repository
}

func NewGradingRepository(db base.DB) *GradingRepository {
	return &GradingRepository{Repository: base.NewRepository(db)}
}

// Count возвращает количество записей, подходящих под фильтр
func (r *GradingRepository) Count(ctx context.Context, f model.GradingFilter) (int64, error) {
	query, args := BuildGradingCount(f)

	var total int64
	if err := r.QueryRow(ctx, query, args...).Scan(&total); err != nil {
		return 0, fmt.Errorf("count grading rows: %w", err)
	}

	return total, nil
}

// Page возвращает страницу строк обзора
func (r *GradingRepository) Page(ctx context.Context, f model.GradingFilter, sort GradingSort, offset, limit int) ([]*model.GradingRow, error) {
	query, args := BuildGradingPage(f, sort, offset, limit)

	rows, err := r.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("get grading rows: %w", err)
	}
	defer rows.Close()

	var result []*model.GradingRow
	for rows.Next() {
		var row model.GradingRow
		err := rows.Scan(
			&row.AppointmentID,
			&row.SlotID,
			&row.StudentID,
			&row.StudentFirstName,
			&row.StudentLastName,
			&row.StudentDepartment,
			&row.TeacherID,
			&row.Attended,
			&row.Grade,
			&row.AppointmentNote,
			&row.AppointmentNoteFormat,
			&row.TeacherNote,
			&row.TeacherNoteFormat,
			&row.SchedulerID,
			&row.SchedulerCMID,
			&row.SchedulerName,
			&row.Scale,
			&row.CourseID,
			&row.CourseShortName,
			&row.StartTime,
			&row.Duration,
		)
		if err != nil {
			return nil, fmt.Errorf("scan grading row: %w", err)
		}
		result = append(result, &row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate grading rows: %w", err)
	}

	return result, nil
}
