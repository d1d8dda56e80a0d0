package service

import (
	"context"
	"errors"
	"sync"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/repository"
)

type mockGradingRepo struct {
	rows      []*model.GradingRow
	lastSort  repository.GradingSort
	lastLimit int
	filters   []model.GradingFilter
}

func (m *mockGradingRepo) Count(_ context.Context, f model.GradingFilter) (int64, error) {
	m.filters = append(m.filters, f)
	return int64(len(m.rows)), nil
}

func (m *mockGradingRepo) Page(_ context.Context, f model.GradingFilter, sort repository.GradingSort, offset, limit int) ([]*model.GradingRow, error) {
	m.filters = append(m.filters, f)
	m.lastSort = sort
	m.lastLimit = limit
	if offset >= len(m.rows) {
		return nil, nil
	}
	end := len(m.rows)
	if limit > 0 {
		end = min(offset+limit, end)
	}
	// Копии: сервис дописывает пункты шкалы в строки
	out := make([]*model.GradingRow, 0, end-offset)
	for _, r := range m.rows[offset:end] {
		row := *r
		out = append(out, &row)
	}
	return out, nil
}

type mockSchedulerRepo struct {
	schedulers map[int64]*model.Scheduler
	scales     map[int64]*model.Scale
	scaleCalls int
}

func (m *mockSchedulerRepo) GetByCMID(_ context.Context, cmid int64) (*model.Scheduler, error) {
	return m.schedulers[cmid], nil
}

func (m *mockSchedulerRepo) GetScale(_ context.Context, id int64) (*model.Scale, error) {
	m.scaleCalls++
	return m.scales[id], nil
}

type mockUserRepo struct {
	teachers []*model.User
}

func (m *mockUserRepo) GetByID(_ context.Context, id int64) (*model.User, error) {
	for _, u := range m.teachers {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, nil
}

func (m *mockUserRepo) ListSlotTeachers(context.Context, int64) ([]*model.User, error) {
	return m.teachers, nil
}

type mockAppointmentRepo struct {
	contexts   map[int64]*model.AppointmentContext
	grades     map[int64]*int
	attendance map[int64]bool
}

func newMockAppointmentRepo() *mockAppointmentRepo {
	return &mockAppointmentRepo{
		contexts:   map[int64]*model.AppointmentContext{},
		grades:     map[int64]*int{},
		attendance: map[int64]bool{},
	}
}

func (m *mockAppointmentRepo) GetContext(_ context.Context, id int64) (*model.AppointmentContext, error) {
	ac, ok := m.contexts[id]
	if !ok {
		return nil, nil
	}
	cp := *ac
	return &cp, nil
}

func (m *mockAppointmentRepo) UpdateGrade(_ context.Context, id int64, grade *int) error {
	m.grades[id] = grade
	return nil
}

func (m *mockAppointmentRepo) UpdateAttendance(_ context.Context, id int64, attended bool) error {
	m.attendance[id] = attended
	return nil
}

type mockNotifier struct {
	mu         sync.Mutex
	grades     []string
	attendance []bool
	fail       bool
	// release, если задан, держит отправку до закрытия канала или отмены контекста
	release chan struct{}
}

func (m *mockNotifier) wait(ctx context.Context) error {
	if m.release == nil {
		return nil
	}
	select {
	case <-m.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (m *mockNotifier) NotifyGrade(ctx context.Context, _ *model.AppointmentContext, grade string) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.grades = append(m.grades, grade)
	if m.fail {
		return errors.New("telegram is down")
	}
	return nil
}

func (m *mockNotifier) NotifyAttendance(ctx context.Context, _ *model.AppointmentContext, attended bool) error {
	if err := m.wait(ctx); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.attendance = append(m.attendance, attended)
	if m.fail {
		return errors.New("telegram is down")
	}
	return nil
}

func (m *mockNotifier) sentGrades() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.grades...)
}
