package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/formatting"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

// Notifier сообщает студенту об изменении его записи
type Notifier interface {
	NotifyGrade(ctx context.Context, ac *model.AppointmentContext, grade string) error
	NotifyAttendance(ctx context.Context, ac *model.AppointmentContext, attended bool) error
}

// notifyTimeout ограничивает отправку одного уведомления. Ответ на изменение его не ждёт
const notifyTimeout = 10 * time.Second

type AppointmentService struct {
	appointmentRepo AppointmentRepository
	schedulerRepo   SchedulerRepository
	perms           Permissions
	notifier        Notifier
	logger          *zap.Logger

	notifications sync.WaitGroup
}

func NewAppointmentService(
	appointmentRepo AppointmentRepository,
	schedulerRepo SchedulerRepository,
	perms Permissions,
	notifier Notifier,
	logger *zap.Logger,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		schedulerRepo:   schedulerRepo,
		perms:           perms,
		notifier:        notifier,
		logger:          logger,
	}
}

// ParseGrade разбирает значение из формы: пусто - "без оценки"
func ParseGrade(raw string) (int, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return formatting.NoGrade, nil
	}
	grade, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidGrade
	}
	return grade, nil
}

// SaveGrade выставляет оценку записи. formatting.NoGrade снимает оценку
func (s *AppointmentService) SaveGrade(ctx context.Context, actor *model.User, cmid, appointmentID int64, grade int) error {
	ac, err := s.load(ctx, actor, cmid, appointmentID)
	if err != nil {
		return err
	}

	scale := ac.Scheduler.Scale
	if scale == 0 {
		return ErrGradingDisabled
	}

	var items []string
	if scale < 0 {
		sc, err := s.schedulerRepo.GetScale(ctx, model.ScaleID(scale))
		if err != nil {
			s.logger.Error("Failed to get scale", zap.Int("scale", scale), zap.Error(err))
			return fmt.Errorf("get scale: %w", err)
		}
		items = scaleItemsOf(sc)
	}

	if !formatting.ValidGrade(scale, items, grade) {
		s.logger.Debug("Rejected grade",
			zap.Int64("appointment_id", appointmentID), zap.Int("grade", grade), zap.Int("scale", scale))
		return ErrInvalidGrade
	}

	var value *int
	if grade != formatting.NoGrade {
		value = &grade
	}

	if err := s.appointmentRepo.UpdateGrade(ctx, appointmentID, value); err != nil {
		s.logger.Error("Failed to update grade",
			zap.Int64("appointment_id", appointmentID), zap.Error(err))
		return fmt.Errorf("update grade: %w", err)
	}

	s.logger.Info("Appointment graded",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("teacher_id", actor.ID),
		zap.String("action", "savegrade"),
		zap.Int("value", grade))

	ac.Appointment.Grade = value
	display := formatting.FormatGrade(scale, items, value)
	s.notify(ctx, func(ctx context.Context) {
		if err := s.notifier.NotifyGrade(ctx, ac, display); err != nil {
			s.logger.Warn("Failed to notify student about grade",
				zap.Int64("appointment_id", appointmentID), zap.Error(err))
		}
	})

	return nil
}

// SaveAttendance отмечает посещение записи
func (s *AppointmentService) SaveAttendance(ctx context.Context, actor *model.User, cmid, appointmentID int64, attended bool) error {
	ac, err := s.load(ctx, actor, cmid, appointmentID)
	if err != nil {
		return err
	}

	if err := s.appointmentRepo.UpdateAttendance(ctx, appointmentID, attended); err != nil {
		s.logger.Error("Failed to update attendance",
			zap.Int64("appointment_id", appointmentID), zap.Error(err))
		return fmt.Errorf("update attendance: %w", err)
	}

	s.logger.Info("Appointment attendance saved",
		zap.Int64("appointment_id", appointmentID),
		zap.Int64("teacher_id", actor.ID),
		zap.String("action", "saveseen"),
		zap.Bool("value", attended))

	ac.Appointment.Attended = attended
	s.notify(ctx, func(ctx context.Context) {
		if err := s.notifier.NotifyAttendance(ctx, ac, attended); err != nil {
			s.logger.Warn("Failed to notify student about attendance",
				zap.Int64("appointment_id", appointmentID), zap.Error(err))
		}
	})

	return nil
}

// notify отправляет уведомление в фоне. Отмена запроса его не прерывает
func (s *AppointmentService) notify(ctx context.Context, send func(ctx context.Context)) {
	s.notifications.Add(1)
	go func() {
		defer s.notifications.Done()

		ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		send(ctx)
	}()
}

// Wait дожидается отправки начатых уведомлений
func (s *AppointmentService) Wait() {
	s.notifications.Wait()
}

// load получает запись и проверяет, что её можно менять
func (s *AppointmentService) load(ctx context.Context, actor *model.User, cmid, appointmentID int64) (*model.AppointmentContext, error) {
	if actor == nil || !actor.CanTeach() {
		return nil, ErrNotAllowed
	}

	ac, err := s.appointmentRepo.GetContext(ctx, appointmentID)
	if err != nil {
		s.logger.Error("Failed to get appointment",
			zap.Int64("appointment_id", appointmentID), zap.Error(err))
		return nil, fmt.Errorf("get appointment: %w", err)
	}
	if ac == nil {
		return nil, ErrAppointmentNotFound
	}

	if ac.Scheduler.CMID != cmid {
		return nil, ErrSchedulerMismatch
	}

	if ac.Slot.TeacherID != actor.ID && !s.perms.CanSeeOtherTeachers(actor, model.ScopeActivity) {
		s.logger.Warn("Appointment change denied",
			zap.Int64("appointment_id", appointmentID),
			zap.Int64("user_id", actor.ID),
			zap.Int64("slot_teacher_id", ac.Slot.TeacherID))
		return nil, ErrNotAllowed
	}

	return ac, nil
}
