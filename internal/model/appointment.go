package model

import "time"

// NoteFormat формат текста заметки
type NoteFormat int16

const (
	NoteFormatAuto     NoteFormat = 0
	NoteFormatHTML     NoteFormat = 1
	NoteFormatPlain    NoteFormat = 2
	NoteFormatMarkdown NoteFormat = 4
)

// Appointment запись студента на слот. Создаётся и удаляется внешней системой бронирования,
// здесь меняются только отметка о посещении и оценка
type Appointment struct {
	ID                    int64      `json:"id"`
	SlotID                int64      `json:"slot_id"`
	StudentID             int64      `json:"student_id"`
	Attended              bool       `json:"attended"`
	Grade                 *int       `json:"grade"` // nil - оценка не выставлена
	AppointmentNote       string     `json:"appointment_note"`
	AppointmentNoteFormat NoteFormat `json:"appointment_note_format"`
	TeacherNote           string     `json:"teacher_note"`
	TeacherNoteFormat     NoteFormat `json:"teacher_note_format"`
	UpdatedAt             time.Time  `json:"updated_at"`
}

// AppointmentContext запись вместе со слотом и планировщиком - всё, что нужно для проверки изменения
type AppointmentContext struct {
	Appointment Appointment
	Slot        ScheduleSlot
	Scheduler   Scheduler
	Student     User
}
