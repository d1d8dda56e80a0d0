package view

import (
	"context"
	"time"

	"github.com/Freeeeeet/scheduler_grading/internal/grid"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

// Env контекст запроса, который нужен ячейкам: одинаков для всех строк страницы
type Env struct {
	ActivityScale int    // шкала планировщика, из которого открыт обзор
	ActionURL     string // адрес изменения записи
	CSRFToken     string
	Location      *time.Location
}

// Row строка обзора вместе с контекстом запроса
type Row struct {
	model.GradingRow
	Env *Env
}

type rowSource struct {
	src grid.Source[model.GradingRow]
	env *Env
}

// WrapSource оборачивает строки источника в Row с общим контекстом запроса
func WrapSource(src grid.Source[model.GradingRow], env *Env) grid.Source[Row] {
	return &rowSource{src: src, env: env}
}

func (s *rowSource) Count(ctx context.Context) (int, error) {
	return s.src.Count(ctx)
}

func (s *rowSource) Fetch(ctx context.Context, q grid.Query) ([]Row, error) {
	rows, err := s.src.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	out := make([]Row, len(rows))
	for i := range rows {
		out[i] = Row{GradingRow: rows[i], Env: s.env}
	}
	return out, nil
}
