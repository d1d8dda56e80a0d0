package repository

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

func filter(scope model.Scope) model.GradingFilter {
	return model.GradingFilter{TeacherID: 11, CourseID: 22, SchedulerID: 33, Scope: scope}
}

func TestBuildGradingCount_ScopePredicates(t *testing.T) {
	tests := []struct {
		scope     model.Scope
		predicate string
		args      []any
	}{
		{model.ScopeActivity, "AND s.id = $2", []any{int64(11), int64(33)}},
		{model.ScopeCourse, "AND c.id = $2", []any{int64(11), int64(22)}},
		{model.ScopeSite, "", []any{int64(11)}},
	}

	for _, tt := range tests {
		t.Run(string(tt.scope), func(t *testing.T) {
			query, args := BuildGradingCount(filter(tt.scope))

			assert.True(t, strings.HasPrefix(query, "SELECT COUNT(*)"))
			assert.Contains(t, query, "ss.teacher_id = $1")
			assert.Equal(t, tt.args, args)
			if tt.predicate != "" {
				assert.Contains(t, query, tt.predicate)
			} else {
				assert.NotContains(t, query, "s.id = $2")
				assert.NotContains(t, query, "c.id = $2")
			}
		})
	}
}

func TestBuildGradingCount_UnknownScopeIsActivity(t *testing.T) {
	query, args := BuildGradingCount(filter(model.Scope("galaxy")))

	assert.Contains(t, query, "AND s.id = $2")
	assert.Equal(t, []any{int64(11), int64(33)}, args)
}

// Предикаты сужаются монотонно: site не добавляет условий, course и activity добавляют ровно одно
func TestGradingWhere_Monotonic(t *testing.T) {
	site, _ := gradingWhere(filter(model.ScopeSite))
	course, _ := gradingWhere(filter(model.ScopeCourse))
	activity, _ := gradingWhere(filter(model.ScopeActivity))

	assert.True(t, strings.HasPrefix(course, site))
	assert.True(t, strings.HasPrefix(activity, site))
	assert.Equal(t, 1, strings.Count(course, " AND "))
	assert.Equal(t, 1, strings.Count(activity, " AND "))
}

func TestBuildGradingPage_JoinShape(t *testing.T) {
	query, _ := BuildGradingPage(filter(model.ScopeActivity), GradingSort{}, 0, 50)

	for _, fragment := range []string{
		"FROM courses c",
		"JOIN schedulers s ON s.course_id = c.id",
		"JOIN scheduler_slots ss ON ss.scheduler_id = s.id",
		"RIGHT JOIN scheduler_appointments sa ON sa.slot_id = ss.id",
		"JOIN users u1 ON u1.id = sa.student_id",
		"JOIN users u2 ON u2.id = ss.teacher_id",
	} {
		assert.Contains(t, query, fragment)
	}
}

func TestBuildGradingPage_OrderAndLimit(t *testing.T) {
	query, args := BuildGradingPage(filter(model.ScopeCourse), GradingSort{Column: "schedulername", Desc: true}, 100, 50)

	assert.Contains(t, query, "ORDER BY s.name DESC, sa.id ASC")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{int64(11), int64(22), 50, 100}, args)
}

func TestBuildGradingPage_SiteScopeLimitPlaceholders(t *testing.T) {
	query, args := BuildGradingPage(filter(model.ScopeSite), GradingSort{Column: "grade"}, 0, 10)

	assert.Contains(t, query, "ORDER BY sa.grade ASC, sa.id ASC")
	assert.Contains(t, query, "LIMIT $2 OFFSET $3")
	assert.Equal(t, []any{int64(11), 10, 0}, args)
}

func TestBuildGradingPage_FullNameSortsByLastThenFirst(t *testing.T) {
	query, _ := BuildGradingPage(filter(model.ScopeActivity), GradingSort{Column: "fullname", Desc: true}, 0, 10)

	assert.Contains(t, query, "ORDER BY u1.last_name DESC, u1.first_name DESC, sa.id ASC")
}

func TestBuildGradingPage_UnknownSortFallsBack(t *testing.T) {
	query, _ := BuildGradingPage(filter(model.ScopeActivity), GradingSort{Column: "1; DROP TABLE users"}, 0, 10)

	assert.Contains(t, query, "ORDER BY ss.start_time ASC, sa.id ASC")
	assert.NotContains(t, query, "DROP")
}

func TestBuildGradingPage_NoLimitForExport(t *testing.T) {
	query, args := BuildGradingPage(filter(model.ScopeActivity), GradingSort{Column: "starttime"}, 0, 0)

	assert.NotContains(t, query, "LIMIT")
	assert.Len(t, args, 2)
}

func TestIsSortableGradingColumn(t *testing.T) {
	assert.True(t, IsSortableGradingColumn("starttime"))
	assert.True(t, IsSortableGradingColumn("fullname"))
	assert.False(t, IsSortableGradingColumn("notes"))
}
