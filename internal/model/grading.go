package model

import "time"

// Scope ширина обзора оценок
type Scope string

const (
	ScopeActivity Scope = "activity"
	ScopeCourse   Scope = "course"
	ScopeSite     Scope = "site"
)

// ParseScope возвращает scope и признак того, что значение распознано
func ParseScope(raw string) (Scope, bool) {
	switch Scope(raw) {
	case ScopeActivity, ScopeCourse, ScopeSite:
		return Scope(raw), true
	}
	return ScopeActivity, false
}

// GradingFilter параметры выборки для обзора оценок
type GradingFilter struct {
	TeacherID   int64
	CourseID    int64
	SchedulerID int64
	Scope       Scope
}

// GradingRow строка обзора: запись + слот + студент + планировщик + курс
type GradingRow struct {
	AppointmentID         int64
	SlotID                int64
	StudentID             int64
	StudentFirstName      string
	StudentLastName       string
	StudentDepartment     string
	TeacherID             int64
	Attended              bool
	Grade                 *int
	AppointmentNote       string
	AppointmentNoteFormat NoteFormat
	TeacherNote           string
	TeacherNoteFormat     NoteFormat
	SchedulerID           int64
	SchedulerCMID         int64
	SchedulerName         string
	Scale                 int
	ScaleItems            []string // пункты именованной шкалы, заполняются сервисом после выборки
	CourseID              int64
	CourseShortName       string
	StartTime             time.Time
	Duration              int
}

// StudentFullName имя студента для отображения
func (r *GradingRow) StudentFullName() string {
	u := User{FirstName: r.StudentFirstName, LastName: r.StudentLastName}
	return u.FullName()
}
