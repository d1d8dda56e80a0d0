package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/formatting"
	"github.com/Freeeeeet/scheduler_grading/internal/grid"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

var ErrExportGenerateFail = errors.New("failed to generate xlsx")

const exportSheet = "Оценки"

var exportHeaders = []string{"Курс", "Активность", "Дата", "Студент", "Подразделение", "Посещение", "Оценка"}

type ExportService struct {
	location *time.Location
	logger   *zap.Logger
}

func NewExportService(location *time.Location, logger *zap.Logger) *ExportService {
	if location == nil {
		location = time.UTC
	}
	return &ExportService{location: location, logger: logger}
}

// Export выгружает все строки источника в xlsx в порядке sort/desc.
// Возвращает содержимое файла и предлагаемое имя
func (s *ExportService) Export(ctx context.Context, scheduler *model.Scheduler, src grid.Source[model.GradingRow], sort string, desc bool) (*bytes.Buffer, string, error) {
	// Limit 0 - без ограничения
	rows, err := src.Fetch(ctx, grid.Query{Sort: sort, Desc: desc})
	if err != nil {
		s.logger.Error("Failed to fetch rows for export", zap.Int64("cmid", scheduler.CMID), zap.Error(err))
		return nil, "", fmt.Errorf("fetch export rows: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(exportSheet)
	if err != nil {
		return nil, "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range exportHeaders {
		f.SetCellValue(exportSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(exportSheet, "A1", cell(colName(len(exportHeaders)-1), 1), headerStyle)
	f.SetColWidth(exportSheet, "A", "B", 18)
	f.SetColWidth(exportSheet, "C", "C", 24)
	f.SetColWidth(exportSheet, "D", "E", 22)

	for i, row := range rows {
		line := i + 2
		attended := "Нет"
		if row.Attended {
			attended = "Да"
		}
		values := []any{
			row.CourseShortName,
			row.SchedulerName,
			formatting.FormatSlotTime(row.StartTime, row.Duration, s.location),
			row.StudentFullName(),
			row.StudentDepartment,
			attended,
			formatting.FormatGrade(row.Scale, row.ScaleItems, row.Grade),
		}
		for col, v := range values {
			f.SetCellValue(exportSheet, cell(colName(col), line), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("Failed to write xlsx", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	s.logger.Info("Grading exported",
		zap.Int64("cmid", scheduler.CMID),
		zap.Int("rows", len(rows)))

	filename := fmt.Sprintf("grading_%d_%s.xlsx", scheduler.CMID, time.Now().In(s.location).Format("20060102"))
	return buf, filename, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
