// Package grid - таблица с сортировкой, постраничным выводом, скрываемыми колонками
// и подавлением повторяющихся значений. Данные тянутся постранично из Source,
// ячейки рендерятся явными функциями на каждую колонку.
package grid

import (
	"net/url"

	"github.com/a-h/templ"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/preference"
)

// DefaultPageSize строк на страницу по умолчанию
const DefaultPageSize = 50

// CellFunc рендерит значение одной колонки для строки
type CellFunc[R any] func(row R) templ.Component

// Column описание колонки
type Column struct {
	ID              string
	Header          string
	Class           string
	NoSort          bool // колонка не участвует в сортировке
	Collapsible     bool // пользователь может скрыть/показать колонку
	HiddenByDefault bool // скрыта, пока пользователь не покажет её
	Suppress        bool // повтор значения из предыдущей строки выводится пустым
}

// Config всё, что нужно для создания таблицы
type Config[R any] struct {
	ID          string // ключ сохранённых настроек
	Columns     []Column
	Renderers   map[string]CellFunc[R]
	BaseURL     *url.URL
	DefaultSort string
	PageSize    int
	TableID     string
	TableClass  string
	HXTarget    string // если задан, ссылки таблицы получают hx-get для частичного обновления
	Prefs       preference.Store
	Logger      *zap.Logger
}

// Table настроенная и проверенная таблица; безопасна для конкурентного использования
type Table[R any] struct {
	id          string
	columns     []Column
	index       map[string]int
	renderers   map[string]CellFunc[R]
	baseURL     url.URL
	defaultSort string
	pageSize    int
	tableID     string
	tableClass  string
	hxTarget    string
	prefs       preference.Store
	logger      *zap.Logger
}

// New проверяет описание таблицы. Все ошибки описания - *ConfigurationError
func New[R any](cfg Config[R]) (*Table[R], error) {
	if cfg.ID == "" {
		return nil, &ConfigurationError{Table: cfg.ID, Reason: "table id is required"}
	}
	if cfg.PageSize <= 0 {
		return nil, &ConfigurationError{Table: cfg.ID, Reason: "page size must be positive"}
	}
	if len(cfg.Columns) == 0 {
		return nil, &ConfigurationError{Table: cfg.ID, Reason: "no columns declared"}
	}
	if cfg.BaseURL == nil {
		return nil, &ConfigurationError{Table: cfg.ID, Reason: "base url is required"}
	}

	index := make(map[string]int, len(cfg.Columns))
	for i, col := range cfg.Columns {
		if col.ID == "" {
			return nil, &ConfigurationError{Table: cfg.ID, Reason: "column without id"}
		}
		if _, dup := index[col.ID]; dup {
			return nil, &ConfigurationError{Table: cfg.ID, Column: col.ID, Reason: "declared twice"}
		}
		if _, ok := cfg.Renderers[col.ID]; !ok {
			return nil, &ConfigurationError{Table: cfg.ID, Column: col.ID, Reason: "no renderer"}
		}
		if col.HiddenByDefault && !col.Collapsible {
			return nil, &ConfigurationError{Table: cfg.ID, Column: col.ID, Reason: "hidden by default but not collapsible"}
		}
		index[col.ID] = i
	}
	for id := range cfg.Renderers {
		if _, ok := index[id]; !ok {
			return nil, &ConfigurationError{Table: cfg.ID, Column: id, Reason: "renderer for undeclared column"}
		}
	}

	def, ok := index[cfg.DefaultSort]
	if !ok {
		return nil, &ConfigurationError{Table: cfg.ID, Column: cfg.DefaultSort, Reason: "default sort column is not declared"}
	}
	if cfg.Columns[def].NoSort {
		return nil, &ConfigurationError{Table: cfg.ID, Column: cfg.DefaultSort, Reason: "default sort column is not sortable"}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	tableID := cfg.TableID
	if tableID == "" {
		tableID = cfg.ID
	}

	return &Table[R]{
		id:          cfg.ID,
		columns:     append([]Column(nil), cfg.Columns...),
		index:       index,
		renderers:   cfg.Renderers,
		baseURL:     *cfg.BaseURL,
		defaultSort: cfg.DefaultSort,
		pageSize:    cfg.PageSize,
		tableID:     tableID,
		tableClass:  cfg.TableClass,
		hxTarget:    cfg.HXTarget,
		prefs:       cfg.Prefs,
		logger:      logger,
	}, nil
}

// WithBaseURL копия таблицы с другим адресом для ссылок сортировки и страниц.
// Описание колонок повторно не проверяется
func (t *Table[R]) WithBaseURL(u *url.URL) *Table[R] {
	c := *t
	c.baseURL = *u
	return &c
}

// ID ключ таблицы
func (t *Table[R]) ID() string { return t.id }

// PageSize строк на страницу
func (t *Table[R]) PageSize() int { return t.pageSize }

// Columns копия описания колонок
func (t *Table[R]) Columns() []Column {
	return append([]Column(nil), t.columns...)
}

func (t *Table[R]) column(id string) (Column, bool) {
	i, ok := t.index[id]
	if !ok {
		return Column{}, false
	}
	return t.columns[i], true
}

func (t *Table[R]) sortable(id string) bool {
	col, ok := t.column(id)
	return ok && !col.NoSort
}

func (t *Table[R]) collapsible(id string) bool {
	col, ok := t.column(id)
	return ok && col.Collapsible
}
