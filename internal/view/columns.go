package view

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/formatting"
	"github.com/Freeeeeet/scheduler_grading/internal/grid"
	"github.com/Freeeeeet/scheduler_grading/internal/preference"
)

// Идентификаторы колонок обзора. Совпадают с ключами сортировки в репозитории
const (
	ColCourse     = "courseshort"
	ColScheduler  = "schedulername"
	ColStartTime  = "starttime"
	ColFullName   = "fullname"
	ColDepartment = "studentdepartment"
	ColAttended   = "attended"
	ColGrade      = "grade"
	ColNotes      = "notes"
)

const (
	// GradingGridID ключ сохранённых настроек таблицы обзора
	GradingGridID = "mod_scheduler_grading"
	// GridWrapID id элемента, который заменяется при частичном обновлении
	GridWrapID = "grading-wrap"
)

// GradingColumns колонки обзора оценок в порядке вывода
func GradingColumns() []grid.Column {
	return []grid.Column{
		{ID: ColCourse, Header: "Курс", Suppress: true},
		{ID: ColScheduler, Header: "Активность", Suppress: true},
		{ID: ColStartTime, Header: "Дата", Suppress: true},
		{ID: ColFullName, Header: "Студент", Suppress: true},
		{ID: ColDepartment, Header: "Подразделение", Collapsible: true},
		{ID: ColAttended, Header: "Посещение"},
		{ID: ColGrade, Header: "Оценка"},
		{ID: ColNotes, Header: "Заметки", NoSort: true, Collapsible: true, HiddenByDefault: true},
	}
}

// GradingRenderers явное соответствие колонка -> функция отрисовки ячейки
func GradingRenderers() map[string]grid.CellFunc[Row] {
	return map[string]grid.CellFunc[Row]{
		ColCourse:     func(r Row) templ.Component { return text(r.CourseShortName) },
		ColScheduler:  func(r Row) templ.Component { return text(r.SchedulerName) },
		ColStartTime:  StartTimeCell,
		ColFullName:   func(r Row) templ.Component { return text(r.StudentFullName()) },
		ColDepartment: func(r Row) templ.Component { return text(r.StudentDepartment) },
		ColAttended:   AttendedCell,
		ColGrade:      GradeCell,
		ColNotes:      NotesCell,
	}
}

// NewGradingTable создаёт таблицу обзора. Адрес ссылок подставляется на запрос через WithBaseURL
func NewGradingTable(pageSize int, prefs preference.Store, logger *zap.Logger) (*grid.Table[Row], error) {
	return grid.New(grid.Config[Row]{
		ID:          GradingGridID,
		Columns:     GradingColumns(),
		Renderers:   GradingRenderers(),
		BaseURL:     &url.URL{Path: "/"},
		DefaultSort: ColStartTime,
		PageSize:    pageSize,
		TableID:     "grading",
		TableClass:  "generaltable gradingtable",
		HXTarget:    "#" + GridWrapID,
		Prefs:       prefs,
		Logger:      logger,
	})
}

// StartTimeCell диапазон времени слота или только дата, если длительность не задана
func StartTimeCell(r Row) templ.Component {
	return text(formatting.FormatSlotTime(r.StartTime, r.Duration, r.Env.Location))
}

// AttendedCell форма с чекбоксом посещения
func AttendedCell(r Row) templ.Component {
	return attendedForm(r)
}

// GradeCell список выбора оценки, если у активности и у строки настроена шкала.
// Без шкалы у активности - оценка только для чтения
func GradeCell(r Row) templ.Component {
	if r.Env.ActivityScale == 0 {
		return text(formatting.FormatGrade(r.Scale, r.ScaleItems, r.Grade))
	}
	if r.Scale == 0 {
		return text("")
	}
	return gradeForm(r, formatting.GradingChoices(r.Scale, r.ScaleItems), formatting.SelectedGrade(r.Grade))
}

// NotesCell заметки студента и учителя
func NotesCell(r Row) templ.Component {
	var b strings.Builder
	var errs []error

	for _, note := range []struct {
		class  string
		render func() (string, error)
	}{
		{"appointmentnote", func() (string, error) {
			return formatting.FormatNote(r.AppointmentNote, r.AppointmentNoteFormat)
		}},
		{"teachernote", func() (string, error) {
			return formatting.FormatNote(r.TeacherNote, r.TeacherNoteFormat)
		}},
	} {
		html, err := note.render()
		if err != nil {
			errs = append(errs, fmt.Errorf("format %s: %w", note.class, err))
			continue
		}
		if html != "" {
			fmt.Fprintf(&b, `<div class="%s">%s</div>`, note.class, html)
		}
	}

	return templ.Raw(b.String(), errs...)
}

func text(s string) templ.Component {
	return templ.Raw(templ.EscapeString(s))
}

func itoa(v int64) string {
	return strconv.FormatInt(v, 10)
}
