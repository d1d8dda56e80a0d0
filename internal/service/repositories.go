package service

import (
	"context"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/repository"
)

// Интерфейсы репозиториев, которые использует сервис. Реализуются пакетом repository

type GradingRepository interface {
	Count(ctx context.Context, f model.GradingFilter) (int64, error)
	Page(ctx context.Context, f model.GradingFilter, sort repository.GradingSort, offset, limit int) ([]*model.GradingRow, error)
}

type SchedulerRepository interface {
	GetByCMID(ctx context.Context, cmid int64) (*model.Scheduler, error)
	GetScale(ctx context.Context, id int64) (*model.Scale, error)
}

type UserRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	ListSlotTeachers(ctx context.Context, schedulerID int64) ([]*model.User, error)
}

type AppointmentRepository interface {
	GetContext(ctx context.Context, appointmentID int64) (*model.AppointmentContext, error)
	UpdateGrade(ctx context.Context, appointmentID int64, grade *int) error
	UpdateAttendance(ctx context.Context, appointmentID int64, attended bool) error
}

var (
	_ GradingRepository     = (*repository.GradingRepository)(nil)
	_ SchedulerRepository   = (*repository.SchedulerRepository)(nil)
	_ UserRepository        = (*repository.UserRepository)(nil)
	_ AppointmentRepository = (*repository.AppointmentRepository)(nil)
)
