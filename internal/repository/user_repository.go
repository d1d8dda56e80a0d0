package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/repository/base"
)

type UserRepository struct {
	*base.Repository
}

func NewUserRepository(db base.DB) *UserRepository {
	return &UserRepository{Repository: base.NewRepository(db)}
}

const userColumns = `id, telegram_id, username, first_name, last_name, department, role, created_at`

// GetByID получает пользователя по ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	var user model.User
	err := r.QueryRow(ctx, query, id).Scan(
		&user.ID,
		&user.TelegramID,
		&user.Username,
		&user.FirstName,
		&user.LastName,
		&user.Department,
		&user.Role,
		&user.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil // Пользователь не найден
		}
		return nil, fmt.Errorf("get user by id: %w", err)
	}

	return &user, nil
}

// ListSlotTeachers получает учителей, у которых есть слоты в планировщике
func (r *UserRepository) ListSlotTeachers(ctx context.Context, schedulerID int64) ([]*model.User, error) {
	query := `
		SELECT DISTINCT u.id, u.telegram_id, u.username, u.first_name, u.last_name, u.department, u.role, u.created_at
		FROM users u
		JOIN scheduler_slots ss ON ss.teacher_id = u.id
		WHERE ss.scheduler_id = $1
		ORDER BY u.last_name, u.first_name, u.id
	`

	rows, err := r.Query(ctx, query, schedulerID)
	if err != nil {
		return nil, fmt.Errorf("list slot teachers: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		var user model.User
		err := rows.Scan(
			&user.ID,
			&user.TelegramID,
			&user.Username,
			&user.FirstName,
			&user.LastName,
			&user.Department,
			&user.Role,
			&user.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		users = append(users, &user)
	}

	return users, rows.Err()
}
