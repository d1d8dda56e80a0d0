package repository

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/repository/base"
)

type AppointmentRepository struct {
	*base.Repository
}

func NewAppointmentRepository(db base.DB) *AppointmentRepository {
	return &AppointmentRepository{Repository: base.NewRepository(db)}
}

// GetContext получает запись вместе со слотом, планировщиком и студентом
func (r *AppointmentRepository) GetContext(ctx context.Context, appointmentID int64) (*model.AppointmentContext, error) {
	query := `
		SELECT sa.id, sa.slot_id, sa.student_id, sa.attended, sa.grade,
		       sa.appointment_note, sa.appointment_note_format,
		       sa.teacher_note, sa.teacher_note_format, sa.updated_at,
		       ss.id, ss.scheduler_id, ss.teacher_id, ss.start_time, ss.duration, ss.location,
		       s.id, s.cmid, s.course_id, s.name, s.scale,
		       u.id, u.telegram_id, u.username, u.first_name, u.last_name, u.department, u.role, u.created_at
		FROM scheduler_appointments sa
		JOIN scheduler_slots ss ON ss.id = sa.slot_id
		JOIN schedulers s ON s.id = ss.scheduler_id
		JOIN users u ON u.id = sa.student_id
		WHERE sa.id = $1
	`

	var ac model.AppointmentContext
	a, sl, sc, st := &ac.Appointment, &ac.Slot, &ac.Scheduler, &ac.Student
	err := r.QueryRow(ctx, query, appointmentID).Scan(
		&a.ID, &a.SlotID, &a.StudentID, &a.Attended, &a.Grade,
		&a.AppointmentNote, &a.AppointmentNoteFormat,
		&a.TeacherNote, &a.TeacherNoteFormat, &a.UpdatedAt,
		&sl.ID, &sl.SchedulerID, &sl.TeacherID, &sl.StartTime, &sl.Duration, &sl.Location,
		&sc.ID, &sc.CMID, &sc.CourseID, &sc.Name, &sc.Scale,
		&st.ID, &st.TelegramID, &st.Username, &st.FirstName, &st.LastName, &st.Department, &st.Role, &st.CreatedAt,
	)

	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get appointment context: %w", err)
	}

	return &ac, nil
}

// UpdateGrade выставляет оценку; nil снимает оценку
func (r *AppointmentRepository) UpdateGrade(ctx context.Context, appointmentID int64, grade *int) error {
	query := `
		UPDATE scheduler_appointments
		SET grade = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, grade, appointmentID)
	if err != nil {
		return fmt.Errorf("update appointment grade: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}

// UpdateAttendance отмечает посещение
func (r *AppointmentRepository) UpdateAttendance(ctx context.Context, appointmentID int64, attended bool) error {
	query := `
		UPDATE scheduler_appointments
		SET attended = $1, updated_at = now()
		WHERE id = $2
	`

	affected, err := r.ExecAffected(ctx, query, attended, appointmentID)
	if err != nil {
		return fmt.Errorf("update appointment attendance: %w", err)
	}

	if affected == 0 {
		return fmt.Errorf("appointment not found")
	}

	return nil
}
