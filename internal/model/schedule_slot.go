package model

import "time"

// ScheduleSlot временное окно учителя внутри планировщика
type ScheduleSlot struct {
	ID          int64     `json:"id"`
	SchedulerID int64     `json:"scheduler_id"`
	TeacherID   int64     `json:"teacher_id"`
	StartTime   time.Time `json:"start_time"`
	Duration    int       `json:"duration"` // в минутах, 0 - без длительности
	Location    string    `json:"location"`
}

// EndTime возвращает время окончания слота
func (s *ScheduleSlot) EndTime() time.Time {
	return s.StartTime.Add(time.Duration(s.Duration) * time.Minute)
}
