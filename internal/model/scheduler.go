package model

// Scheduler экземпляр активности-планировщика внутри курса
type Scheduler struct {
	ID       int64  `json:"id"`
	CMID     int64  `json:"cmid"` // идентификатор модуля курса, используется в URL
	CourseID int64  `json:"course_id"`
	Name     string `json:"name"`
	Scale    int    `json:"scale"` // 0 - без оценки, >0 - максимум баллов, <0 - -id шкалы
}

// Graded - настроено ли оценивание
func (s *Scheduler) Graded() bool {
	return s.Scale != 0
}
