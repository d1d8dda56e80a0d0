package repository

import (
	"fmt"
	"strings"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

// Колонки обзора, по которым разрешена сортировка, и их SQL-выражения
var gradingSortColumns = map[string]string{
	"courseshort":       "c.short_name",
	"schedulername":     "s.name",
	"starttime":         "ss.start_time",
	"fullname":          "u1.last_name %[1]s, u1.first_name",
	"studentdepartment": "u1.department",
	"attended":          "sa.attended",
	"grade":             "sa.grade",
}

const defaultGradingSort = "starttime"

const gradingFrom = `
		FROM courses c
		JOIN schedulers s ON s.course_id = c.id
		JOIN scheduler_slots ss ON ss.scheduler_id = s.id
		RIGHT JOIN scheduler_appointments sa ON sa.slot_id = ss.id
		JOIN users u1 ON u1.id = sa.student_id
		JOIN users u2 ON u2.id = ss.teacher_id`

const gradingFields = `
		sa.id, ss.id, u1.id, u1.first_name, u1.last_name, u1.department, u2.id,
		sa.attended, sa.grade,
		sa.appointment_note, sa.appointment_note_format,
		sa.teacher_note, sa.teacher_note_format,
		s.id, s.cmid, s.name, s.scale,
		c.id, c.short_name,
		ss.start_time, ss.duration`

// GradingSort порядок выборки
type GradingSort struct {
	Column string
	Desc   bool
}

// IsSortableGradingColumn проверяет наличие колонки в белом списке сортировки
func IsSortableGradingColumn(column string) bool {
	_, ok := gradingSortColumns[column]
	return ok
}

// gradingWhere строит условие фильтра: учитель всегда, scope - по необходимости
func gradingWhere(f model.GradingFilter) (string, []any) {
	where := "ss.teacher_id = $1"
	args := []any{f.TeacherID}

	switch f.Scope {
	case model.ScopeCourse:
		where += " AND c.id = $2"
		args = append(args, f.CourseID)
	case model.ScopeSite:
	default:
		where += " AND s.id = $2"
		args = append(args, f.SchedulerID)
	}

	return where, args
}

// BuildGradingCount строит запрос количества записей для фильтра
func BuildGradingCount(f model.GradingFilter) (string, []any) {
	where, args := gradingWhere(f)
	return "SELECT COUNT(*)" + gradingFrom + "\n\t\tWHERE " + where, args
}

// BuildGradingPage строит запрос страницы с сортировкой и стабильным порядком по id записи.
// limit <= 0 означает выборку без ограничения (экспорт)
func BuildGradingPage(f model.GradingFilter, sort GradingSort, offset, limit int) (string, []any) {
	where, args := gradingWhere(f)

	var b strings.Builder
	b.WriteString("SELECT")
	b.WriteString(gradingFields)
	b.WriteString(gradingFrom)
	b.WriteString("\n\t\tWHERE ")
	b.WriteString(where)
	b.WriteString("\n\t\tORDER BY ")
	b.WriteString(orderBy(sort))

	if limit > 0 {
		args = append(args, limit, offset)
		fmt.Fprintf(&b, "\n\t\tLIMIT $%d OFFSET $%d", len(args)-1, len(args))
	}

	return b.String(), args
}

func orderBy(sort GradingSort) string {
	expr, ok := gradingSortColumns[sort.Column]
	if !ok {
		expr = gradingSortColumns[defaultGradingSort]
	}

	dir := "ASC"
	if sort.Desc {
		dir = "DESC"
	}

	// Составные выражения содержат %[1]s для направления первой части
	if strings.Contains(expr, "%[1]s") {
		expr = fmt.Sprintf(expr, dir)
	}

	return fmt.Sprintf("%s %s, sa.id ASC", expr, dir)
}
