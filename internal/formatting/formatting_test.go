package formatting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

func intPtr(v int) *int { return &v }

func TestFormatSlotTime(t *testing.T) {
	start := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)

	assert.Equal(t, "14.03.2025 09:30-10:15", FormatSlotTime(start, 45, time.UTC))
	assert.Equal(t, "14.03.2025", FormatSlotTime(start, 0, time.UTC))

	late := time.Date(2025, 3, 14, 23, 30, 0, 0, time.UTC)
	assert.Equal(t, "14.03.2025 23:30-15.03.2025 00:30", FormatSlotTime(late, 60, time.UTC))

	moscow := time.FixedZone("MSK", 3*60*60)
	assert.Equal(t, "14.03.2025 12:30-13:00", FormatSlotTime(start, 30, moscow))
}

func TestFormatDuration(t *testing.T) {
	assert.Equal(t, "45 мин", FormatDuration(45))
	assert.Equal(t, "2 ч", FormatDuration(120))
	assert.Equal(t, "1 ч 30 мин", FormatDuration(90))
}

func TestGradingChoices(t *testing.T) {
	points := GradingChoices(3, nil)
	require.Len(t, points, 5)
	assert.Equal(t, Choice{Value: NoGrade, Label: "Без оценки"}, points[0])
	assert.Equal(t, Choice{Value: 0, Label: "0"}, points[1])
	assert.Equal(t, Choice{Value: 3, Label: "3"}, points[4])

	named := GradingChoices(-2, []string{"Незачёт", "Зачёт"})
	assert.Equal(t, []Choice{
		{Value: NoGrade, Label: "Без оценки"},
		{Value: 1, Label: "Незачёт"},
		{Value: 2, Label: "Зачёт"},
	}, named)

	assert.Len(t, GradingChoices(0, nil), 1)
}

func TestValidGrade(t *testing.T) {
	items := []string{"Плохо", "Хорошо"}

	tests := []struct {
		name  string
		scale int
		grade int
		want  bool
	}{
		{"no grade with points", 10, NoGrade, true},
		{"points in range", 10, 10, true},
		{"points above max", 10, 11, false},
		{"negative points", 10, -2, false},
		{"scale item", -1, 2, true},
		{"scale item zero", -1, 0, false},
		{"scale item past end", -1, 3, false},
		{"grading disabled", 0, NoGrade, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidGrade(tt.scale, items, tt.grade))
		})
	}
}

func TestFormatGrade(t *testing.T) {
	items := []string{"Плохо", "Хорошо"}

	assert.Equal(t, "", FormatGrade(0, nil, intPtr(5)))
	assert.Equal(t, "", FormatGrade(10, nil, nil))
	assert.Equal(t, "7/10", FormatGrade(10, nil, intPtr(7)))
	assert.Equal(t, "Хорошо", FormatGrade(-4, items, intPtr(2)))
	assert.Equal(t, "", FormatGrade(-4, items, intPtr(9)))
}

func TestSelectedGrade(t *testing.T) {
	assert.Equal(t, NoGrade, SelectedGrade(nil))
	assert.Equal(t, 4, SelectedGrade(intPtr(4)))
}

func TestFormatNote(t *testing.T) {
	out, err := FormatNote("", model.NoteFormatPlain)
	require.NoError(t, err)
	assert.Empty(t, out)

	out, err = FormatNote("line <1>\nline 2", model.NoteFormatPlain)
	require.NoError(t, err)
	assert.Equal(t, "<p>line &lt;1&gt;<br>line 2</p>", out)

	out, err = FormatNote("<script>alert(1)</script>", model.NoteFormatHTML)
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")

	out, err = FormatNote("**важно**\n<b>raw</b>", model.NoteFormatMarkdown)
	require.NoError(t, err)
	assert.Contains(t, out, "<strong>важно</strong>")
	assert.NotContains(t, out, "<b>raw</b>")
}
