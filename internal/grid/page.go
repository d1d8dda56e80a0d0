package grid

import (
	"context"
	"fmt"
)

// Query параметры выборки одной страницы
type Query struct {
	Sort   string
	Desc   bool
	Offset int
	Limit  int
}

// Source источник строк таблицы. Fetch обязан возвращать строки в стабильном порядке
// для одинакового Query
type Source[R any] interface {
	Count(ctx context.Context) (int, error)
	Fetch(ctx context.Context, q Query) ([]R, error)
}

// Page результат построения одной страницы
type Page[R any] struct {
	table *Table[R]
	State State
	Rows  []R
	Total int
	Pages int
}

// Empty нет ни одной строки под фильтр
func (p *Page[R]) Empty() bool {
	return p.Total == 0
}

// Offset смещение первой строки страницы
func (p *Page[R]) Offset() int {
	return p.State.Page * p.table.pageSize
}

// Build считает строки, прижимает номер страницы к последней существующей и
// забирает строки страницы из источника
func (t *Table[R]) Build(ctx context.Context, st State, src Source[R]) (*Page[R], error) {
	total, err := src.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("count rows: %w", err)
	}

	page := &Page[R]{table: t, State: st, Total: total}
	if total == 0 {
		page.State.Page = 0
		return page, nil
	}

	page.Pages = (total + t.pageSize - 1) / t.pageSize
	if page.State.Page >= page.Pages {
		page.State.Page = page.Pages - 1
	}
	if page.State.Page < 0 {
		page.State.Page = 0
	}

	rows, err := src.Fetch(ctx, Query{
		Sort:   page.State.Sort,
		Desc:   page.State.Desc,
		Offset: page.Offset(),
		Limit:  t.pageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("fetch rows: %w", err)
	}
	page.Rows = rows

	return page, nil
}
