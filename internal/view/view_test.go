package view

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/grid"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

func intPtr(v int) *int { return &v }

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func testEnv(activityScale int) *Env {
	return &Env{
		ActivityScale: activityScale,
		ActionURL:     "/mod/scheduler/ajax",
		CSRFToken:     "tok\"en",
		Location:      time.UTC,
	}
}

func testRow(env *Env) Row {
	return Row{
		GradingRow: model.GradingRow{
			AppointmentID:     42,
			SchedulerCMID:     7,
			SchedulerName:     "Консультации",
			CourseShortName:   "MATH101",
			StudentFirstName:  "Анна",
			StudentLastName:   "Смирнова",
			StudentDepartment: "ИУ-5",
			StartTime:         time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC),
			Duration:          30,
		},
		Env: env,
	}
}

func TestGradeCell_UngradedActivity(t *testing.T) {
	row := testRow(testEnv(0))

	assert.Empty(t, renderString(t, GradeCell(row)))

	// Строка другого планировщика со шкалой показывается только для чтения
	row.Scale = 10
	row.Grade = intPtr(8)
	assert.Equal(t, "8/10", renderString(t, GradeCell(row)))
}

func TestGradeCell_SelectWithChoices(t *testing.T) {
	row := testRow(testEnv(5))
	row.Scale = -3
	row.ScaleItems = []string{"Незачёт", "Зачёт"}
	row.Grade = intPtr(2)

	html := renderString(t, GradeCell(row))

	assert.Contains(t, html, `<select name="grade" class="studentselect" id="grade_42" data-appid="42">`)
	assert.Contains(t, html, `<option value="-1">Без оценки</option>`)
	assert.Contains(t, html, `<option value="2" selected>Зачёт</option>`)
	assert.Contains(t, html, `name="action" value="savegrade"`)
	assert.Contains(t, html, `name="id" value="7"`)
	assert.Contains(t, html, `name="sesskey" value="tok&#34;en"`)
}

func TestGradeCell_NoGradeSelected(t *testing.T) {
	row := testRow(testEnv(5))
	row.Scale = 5

	html := renderString(t, GradeCell(row))

	assert.Contains(t, html, `<option value="-1" selected>Без оценки</option>`)
	assert.Contains(t, html, `<option value="5">5</option>`)
}

func TestGradeCell_RowWithoutScaleInGradedActivity(t *testing.T) {
	row := testRow(testEnv(5))

	assert.Empty(t, renderString(t, GradeCell(row)))
}

func TestAttendedCell(t *testing.T) {
	row := testRow(testEnv(0))

	html := renderString(t, AttendedCell(row))
	assert.Contains(t, html, `<input type="checkbox" name="seen[]" value="42" class="studentselect" id="seen_42">`)
	assert.Contains(t, html, `data-action="saveseen"`)

	row.Attended = true
	assert.Contains(t, renderString(t, AttendedCell(row)), `id="seen_42" checked>`)
}

func TestNotesCell(t *testing.T) {
	row := testRow(testEnv(0))
	row.AppointmentNote = "*срочно*"
	row.AppointmentNoteFormat = model.NoteFormatMarkdown
	row.TeacherNote = "<i>ok</i>"
	row.TeacherNoteFormat = model.NoteFormatHTML

	html := renderString(t, NotesCell(row))

	assert.Contains(t, html, `<div class="appointmentnote"><p><em>срочно</em></p></div>`)
	assert.Contains(t, html, `&lt;i&gt;ok&lt;/i&gt;`)
}

type staticSource struct{ rows []model.GradingRow }

func (s staticSource) Count(context.Context) (int, error) { return len(s.rows), nil }

func (s staticSource) Fetch(_ context.Context, q grid.Query) ([]model.GradingRow, error) {
	end := min(q.Offset+q.Limit, len(s.rows))
	return s.rows[q.Offset:end], nil
}

func TestGradingTable_ScenarioUngradedSingleAppointment(t *testing.T) {
	table, err := NewGradingTable(50, nil, zap.NewNop())
	require.NoError(t, err)

	base, _ := url.Parse("/mod/scheduler/7/grade")
	table = table.WithBaseURL(base)

	src := WrapSource(staticSource{rows: []model.GradingRow{testRow(nil).GradingRow}}, testEnv(0))
	page, err := table.Build(context.Background(), table.DefaultState(), src)
	require.NoError(t, err)

	html := renderString(t, GridFragment(page))

	assert.Contains(t, html, `id="grading-wrap"`)
	assert.Contains(t, html, `name="seen[]" value="42"`)
	assert.NotContains(t, html, " checked")
	assert.NotContains(t, html, "<select")
	assert.Contains(t, html, "03.02.2025 10:00-10:30")
}

func TestGradingTable_SuppressesSameSlot(t *testing.T) {
	table, err := NewGradingTable(50, nil, nil)
	require.NoError(t, err)

	first := testRow(nil).GradingRow
	second := first
	second.AppointmentID = 43
	second.StudentFirstName = "Борис"

	src := WrapSource(staticSource{rows: []model.GradingRow{first, second}}, testEnv(0))
	page, err := table.Build(context.Background(), table.DefaultState(), src)
	require.NoError(t, err)

	html := renderString(t, page.Component())

	assert.Equal(t, 1, strings.Count(html, ">Консультации<"))
	assert.Equal(t, 1, strings.Count(html, ">MATH101<"))
	assert.Equal(t, 1, strings.Count(html, "03.02.2025 10:00-10:30"))
	// Отделение не подавляется
	assert.Equal(t, 2, strings.Count(html, ">ИУ-5<"))
}

func TestGridFragment_EmptyIsSingleNotice(t *testing.T) {
	table, err := NewGradingTable(50, nil, nil)
	require.NoError(t, err)

	page, err := table.Build(context.Background(), table.DefaultState(), WrapSource(staticSource{}, testEnv(0)))
	require.NoError(t, err)

	html := renderString(t, GridFragment(page))

	assert.Equal(t, `<div id="grading-wrap" class="notice alert alert-info" role="status">`+EmptyNotice+`</div>`, html)
	assert.NotContains(t, html, "<table")
}

func TestGradingPage_Menus(t *testing.T) {
	data := GradingData{
		SchedulerName: "Консультации",
		PageURL:       "/mod/scheduler/7/grade",
		Scope:         model.ScopeCourse,
		Scopes:        []model.Scope{model.ScopeActivity, model.ScopeCourse},
		TeacherID:     3,
		Teachers: []model.User{
			{ID: 2, FirstName: "Иван", LastName: "Петров"},
			{ID: 3, FirstName: "Ольга", LastName: "Иванова"},
		},
	}

	html := renderString(t, GradingPage(data))

	assert.Contains(t, html, `<option value="course" selected>Этот курс</option>`)
	assert.Contains(t, html, `<option value="0">Я</option>`)
	assert.Contains(t, html, `<option value="3" selected>Ольга Иванова</option>`)
	assert.Contains(t, html, `<input type="hidden" name="teacherid" value="3">`)
	assert.Contains(t, html, EmptyNotice)
	assert.NotContains(t, html, "Скачать")

	data.Scopes = nil
	data.Teachers = nil
	html = renderString(t, GradingPage(data))
	assert.NotContains(t, html, "scopeselect")
	assert.NotContains(t, html, "teacherselect")
}

func TestGradingPage_TeacherMenuSelf(t *testing.T) {
	data := GradingData{
		PageURL:   "/mod/scheduler/7/grade",
		Scope:     model.ScopeActivity,
		TeacherID: 1,
		SelfID:    1,
		Teachers: []model.User{
			{ID: 2, FirstName: "Иван", LastName: "Петров"},
			{ID: 3, FirstName: "Ольга", LastName: "Иванова"},
		},
	}

	html := renderString(t, GradingPage(data))

	assert.Contains(t, html, `<select name="teacherid" id="teacherid"><option value="0" selected>Я</option><option value="2">Иван Петров</option><option value="3">Ольга Иванова</option></select>`)

	// Пользователь, который сам ведёт слоты, не дублируется в списке
	data.Teachers = append(data.Teachers, model.User{ID: 1, FirstName: "Пётр", LastName: "Сидоров"})
	html = renderString(t, GradingPage(data))
	assert.NotContains(t, html, `<option value="1"`)
	assert.Equal(t, 1, strings.Count(html, " selected"))
}

func TestGeneratedComponents_EscapeAndContext(t *testing.T) {
	html := renderString(t, Notice("x\"y", "<b>нет</b>"))
	assert.Equal(t, `<div id="x&#34;y" class="notice alert alert-info" role="status">&lt;b&gt;нет&lt;/b&gt;</div>`, html)

	html = renderString(t, GradingPage(GradingData{SchedulerName: "A & B"}))
	assert.Contains(t, html, `<h2>Оценки: A &amp; B</h2>`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	assert.ErrorIs(t, Layout("t", Notice("n", "m")).Render(ctx, &buf), context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestRenderWithLayout(t *testing.T) {
	page := templ.Raw("<p>page</p>")
	fragment := templ.Raw("<p>fragment</p>")

	req := httptest.NewRequest(http.MethodGet, "/mod/scheduler/7/grade", nil)
	rec := httptest.NewRecorder()
	require.NoError(t, RenderWithLayout(rec, req, "Оценки", page, fragment))
	assert.Contains(t, rec.Body.String(), "<!doctype html>")
	assert.Contains(t, rec.Body.String(), "<p>page</p>")

	req.Header.Set("HX-Request", "true")
	rec = httptest.NewRecorder()
	require.NoError(t, RenderWithLayout(rec, req, "Оценки", page, fragment))
	assert.Equal(t, "<p>fragment</p>", rec.Body.String())
}

func TestStatic(t *testing.T) {
	for _, name := range []string{"update.js", "savegrade.js", "saveseen.js", "grading.css"} {
		f, err := Static().Open(name)
		require.NoError(t, err, name)
		f.Close()
	}
}
