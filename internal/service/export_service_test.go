package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

func TestExport(t *testing.T) {
	grade := 7
	grading := &mockGradingRepo{rows: []*model.GradingRow{
		{
			AppointmentID: 1, CourseShortName: "MATH101", SchedulerName: "Консультации",
			StudentFirstName: "Анна", StudentLastName: "Смирнова", StudentDepartment: "ИУ-5",
			Attended: true, Grade: &grade, Scale: 10,
			StartTime: time.Date(2025, 2, 3, 10, 0, 0, 0, time.UTC), Duration: 30,
		},
		{AppointmentID: 2, CourseShortName: "MATH101", Scale: 10},
	}}
	schedulers := schedulerRepoWith()
	gradingSvc := newGradingService(grading, schedulers, &mockUserRepo{})
	scheduler := schedulers.schedulers[7]
	src := gradingSvc.Source(scheduler, GradingRequest{Scope: model.ScopeActivity, TeacherID: teacher.ID})

	svc := NewExportService(time.UTC, zap.NewNop())
	buf, filename, err := svc.Export(context.Background(), scheduler, src, "fullname", true)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(filename, "grading_7_"))
	assert.True(t, strings.HasSuffix(filename, ".xlsx"))
	// Выгрузка без ограничения по страницам
	assert.Equal(t, 0, grading.lastLimit)
	assert.Equal(t, "fullname", grading.lastSort.Column)

	f, err := excelize.OpenReader(buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, []string{"MATH101", "Консультации", "03.02.2025 10:00-10:30", "Анна Смирнова", "ИУ-5", "Да", "7/10"}, rows[1])
	assert.Equal(t, "Нет", rows[2][5])
}
