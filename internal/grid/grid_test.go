package grid

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Freeeeeet/scheduler_grading/internal/preference"
)

type testRow struct {
	ID     int
	Course string
	Name   string
	Score  int
}

func text(s string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		_, err := io.WriteString(w, templ.EscapeString(s))
		return err
	})
}

func testConfig() Config[testRow] {
	base, _ := url.Parse("/mod/scheduler/7/grade?scope=course")
	return Config[testRow]{
		ID: "test_grid",
		Columns: []Column{
			{ID: "course", Header: "Курс", Suppress: true},
			{ID: "name", Header: "Имя"},
			{ID: "score", Header: "Баллы", Collapsible: true},
			{ID: "notes", Header: "Заметки", NoSort: true, Collapsible: true, HiddenByDefault: true},
		},
		Renderers: map[string]CellFunc[testRow]{
			"course": func(r testRow) templ.Component { return text(r.Course) },
			"name":   func(r testRow) templ.Component { return text(r.Name) },
			"score":  func(r testRow) templ.Component { return text(strconv.Itoa(r.Score)) },
			"notes":  func(r testRow) templ.Component { return text("note " + r.Name) },
		},
		BaseURL:     base,
		DefaultSort: "name",
		PageSize:    2,
	}
}

func newTestTable(t *testing.T, mutate ...func(*Config[testRow])) *Table[testRow] {
	t.Helper()
	cfg := testConfig()
	for _, m := range mutate {
		m(&cfg)
	}
	table, err := New(cfg)
	require.NoError(t, err)
	return table
}

// sliceSource сортирует в памяти с доп. ключом по ID, как это делает SQL с sa.id ASC
type sliceSource struct {
	rows    []testRow
	fetches int
}

func (s *sliceSource) Count(context.Context) (int, error) { return len(s.rows), nil }

func (s *sliceSource) Fetch(_ context.Context, q Query) ([]testRow, error) {
	s.fetches++
	rows := append([]testRow(nil), s.rows...)
	key := func(r testRow) string {
		switch q.Sort {
		case "course":
			return r.Course
		case "score":
			return strconv.Itoa(r.Score)
		default:
			return r.Name
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		ki, kj := key(rows[i]), key(rows[j])
		if ki != kj {
			if q.Desc {
				return ki > kj
			}
			return ki < kj
		}
		return rows[i].ID < rows[j].ID
	})
	if q.Offset >= len(rows) {
		return nil, nil
	}
	end := min(q.Offset+q.Limit, len(rows))
	return rows[q.Offset:end], nil
}

type memoryStore struct {
	mu   sync.Mutex
	data map[string]preference.Preference
	sets int
	fail bool
}

func newMemoryStore() *memoryStore {
	return &memoryStore{data: map[string]preference.Preference{}}
}

func (m *memoryStore) key(userID int64, gridID string) string {
	return strconv.FormatInt(userID, 10) + ":" + gridID
}

func (m *memoryStore) Get(_ context.Context, userID int64, gridID string) (*preference.Preference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return nil, errors.New("store is down")
	}
	p, ok := m.data[m.key(userID, gridID)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (m *memoryStore) Set(_ context.Context, userID int64, gridID string, pref preference.Preference) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("store is down")
	}
	m.sets++
	m.data[m.key(userID, gridID)] = pref
	return nil
}

func render(t *testing.T, p *Page[testRow]) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, p.Component().Render(context.Background(), &buf))
	return buf.String()
}

func ids(rows []testRow) []int {
	out := make([]int, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func TestNew_ConfigurationErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config[testRow])
		column string
	}{
		{"zero page size", func(c *Config[testRow]) { c.PageSize = 0 }, ""},
		{"negative page size", func(c *Config[testRow]) { c.PageSize = -5 }, ""},
		{"missing renderer", func(c *Config[testRow]) { delete(c.Renderers, "score") }, "score"},
		{"renderer without column", func(c *Config[testRow]) {
			c.Renderers["ghost"] = func(testRow) templ.Component { return nil }
		}, "ghost"},
		{"duplicate column", func(c *Config[testRow]) { c.Columns = append(c.Columns, Column{ID: "name"}) }, "name"},
		{"unknown default sort", func(c *Config[testRow]) { c.DefaultSort = "missing" }, "missing"},
		{"default sort not sortable", func(c *Config[testRow]) { c.DefaultSort = "notes" }, "notes"},
		{"hidden but not collapsible", func(c *Config[testRow]) { c.Columns[1].HiddenByDefault = true }, "name"},
		{"no base url", func(c *Config[testRow]) { c.BaseURL = nil }, ""},
		{"no id", func(c *Config[testRow]) { c.ID = "" }, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			tt.mutate(&cfg)

			table, err := New(cfg)
			assert.Nil(t, table)

			var cfgErr *ConfigurationError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.column, cfgErr.Column)
		})
	}
}

func TestResolve_Defaults(t *testing.T) {
	table := newTestTable(t)

	st := table.Resolve(context.Background(), 1, url.Values{})

	assert.Equal(t, "name", st.Sort)
	assert.False(t, st.Desc)
	assert.Equal(t, 0, st.Page)
	assert.Equal(t, []string{"notes"}, st.CollapsedList())
}

func TestResolve_SortToggle(t *testing.T) {
	store := newMemoryStore()
	table := newTestTable(t, func(c *Config[testRow]) { c.Prefs = store })
	ctx := context.Background()

	st := table.Resolve(ctx, 1, url.Values{ParamSort: {"score"}})
	assert.Equal(t, "score", st.Sort)
	assert.False(t, st.Desc)

	// Повторный клик по той же колонке переключает направление
	st = table.Resolve(ctx, 1, url.Values{ParamSort: {"score"}})
	assert.True(t, st.Desc)

	// Другая колонка сбрасывает на возрастание
	st = table.Resolve(ctx, 1, url.Values{ParamSort: {"course"}})
	assert.Equal(t, "course", st.Sort)
	assert.False(t, st.Desc)

	// Явное направление важнее переключения
	st = table.Resolve(ctx, 1, url.Values{ParamSort: {"course"}, ParamDir: {"asc"}})
	assert.False(t, st.Desc)
}

func TestResolve_IgnoresUnsortableAndUnknown(t *testing.T) {
	table := newTestTable(t)

	st := table.Resolve(context.Background(), 1, url.Values{ParamSort: {"notes"}, ParamHide: {"name"}})
	assert.Equal(t, "name", st.Sort)
	assert.False(t, st.Collapsed["name"])

	st = table.Resolve(context.Background(), 1, url.Values{ParamSort: {"drop table"}, ParamPage: {"-3"}})
	assert.Equal(t, "name", st.Sort)
	assert.Equal(t, 0, st.Page)
}

func TestResolve_PersistsPreference(t *testing.T) {
	store := newMemoryStore()
	table := newTestTable(t, func(c *Config[testRow]) { c.Prefs = store })
	ctx := context.Background()

	table.Resolve(ctx, 5, url.Values{ParamSort: {"score"}, ParamDir: {"desc"}, ParamShow: {"notes"}, ParamHide: {"score"}})

	// Запрос без параметров использует сохранённый выбор
	st := table.Resolve(ctx, 5, url.Values{})
	assert.Equal(t, "score", st.Sort)
	assert.True(t, st.Desc)
	assert.Equal(t, []string{"score"}, st.CollapsedList())

	// Без изменений повторной записи нет
	sets := store.sets
	table.Resolve(ctx, 5, url.Values{ParamPage: {"1"}})
	assert.Equal(t, sets, store.sets)

	// Чужие настройки не подмешиваются
	other := table.Resolve(ctx, 6, url.Values{})
	assert.Equal(t, "name", other.Sort)
}

func TestResolve_StoreFailureFallsBackToDefaults(t *testing.T) {
	store := newMemoryStore()
	store.fail = true
	table := newTestTable(t, func(c *Config[testRow]) { c.Prefs = store })

	st := table.Resolve(context.Background(), 1, url.Values{ParamSort: {"course"}})

	assert.Equal(t, "course", st.Sort)
	assert.Equal(t, []string{"notes"}, st.CollapsedList())
}

func fiveRows() *sliceSource {
	return &sliceSource{rows: []testRow{
		{ID: 1, Course: "MATH", Name: "Иванов", Score: 3},
		{ID: 2, Course: "MATH", Name: "Петров", Score: 5},
		{ID: 3, Course: "PHYS", Name: "Сидоров", Score: 4},
		{ID: 4, Course: "MATH", Name: "Антонов", Score: 5},
		{ID: 5, Course: "PHYS", Name: "Борисов", Score: 2},
	}}
}

func TestBuild_ClampsToLastPage(t *testing.T) {
	table := newTestTable(t)
	src := fiveRows()

	page, err := table.Build(context.Background(), State{Sort: "name", Page: 40}, src)
	require.NoError(t, err)

	assert.Equal(t, 3, page.Pages)
	assert.Equal(t, 2, page.State.Page)
	assert.Equal(t, 4, page.Offset())
	require.Len(t, page.Rows, 1)
}

func TestBuild_EmptyDoesNotFetch(t *testing.T) {
	table := newTestTable(t)
	src := &sliceSource{}

	page, err := table.Build(context.Background(), State{Sort: "name", Page: 3}, src)
	require.NoError(t, err)

	assert.True(t, page.Empty())
	assert.Equal(t, 0, page.State.Page)
	assert.Zero(t, src.fetches)
}

type failingSource struct{ sliceSource }

func (failingSource) Count(context.Context) (int, error) { return 0, errors.New("db gone") }

func TestBuild_CountError(t *testing.T) {
	table := newTestTable(t)

	_, err := table.Build(context.Background(), State{Sort: "name"}, &failingSource{})
	assert.ErrorContains(t, err, "count rows")
}

func TestBuild_PaginationIsStable(t *testing.T) {
	table := newTestTable(t)
	src := fiveRows()
	st := State{Sort: "course", Page: 1}

	first, err := table.Build(context.Background(), st, src)
	require.NoError(t, err)
	second, err := table.Build(context.Background(), st, src)
	require.NoError(t, err)

	assert.Equal(t, ids(first.Rows), ids(second.Rows))
	// course: MATH(1,2,4) PHYS(3,5); вторая страница - 4, 3
	assert.Equal(t, []int{4, 3}, ids(first.Rows))
}

func TestBuild_DescendingReversesDistinctKeys(t *testing.T) {
	table := newTestTable(t, func(c *Config[testRow]) { c.PageSize = 10 })
	src := fiveRows()

	asc, err := table.Build(context.Background(), State{Sort: "name"}, src)
	require.NoError(t, err)
	desc, err := table.Build(context.Background(), State{Sort: "name", Desc: true}, src)
	require.NoError(t, err)

	reversed := ids(desc.Rows)
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	assert.Equal(t, ids(asc.Rows), reversed)
}

func TestRender_SuppressesRepeatedValues(t *testing.T) {
	table := newTestTable(t, func(c *Config[testRow]) { c.PageSize = 10 })

	page, err := table.Build(context.Background(), State{Sort: "course", Collapsed: map[string]bool{}}, fiveRows())
	require.NoError(t, err)
	html := render(t, page)

	assert.Equal(t, 1, strings.Count(html, ">MATH<"))
	assert.Equal(t, 1, strings.Count(html, ">PHYS<"))
	// Неподавляемая колонка выводится в каждой строке
	assert.Equal(t, 2, strings.Count(html, ">5<"))
}

func TestRender_ChangedValueIsNotSuppressed(t *testing.T) {
	table := newTestTable(t, func(c *Config[testRow]) { c.PageSize = 10 })
	src := &sliceSource{rows: []testRow{
		{ID: 1, Course: "MATH", Name: "a"},
		{ID: 2, Course: "PHYS", Name: "b"},
		{ID: 3, Course: "MATH", Name: "c"},
	}}

	page, err := table.Build(context.Background(), State{Sort: "name", Collapsed: map[string]bool{}}, src)
	require.NoError(t, err)

	assert.Equal(t, 2, strings.Count(render(t, page), ">MATH<"))
}

func TestRender_IsIdempotent(t *testing.T) {
	table := newTestTable(t)
	st := table.Resolve(context.Background(), 1, url.Values{ParamSort: {"score"}, ParamPage: {"1"}})

	first, err := table.Build(context.Background(), st, fiveRows())
	require.NoError(t, err)
	second, err := table.Build(context.Background(), st, fiveRows())
	require.NoError(t, err)

	assert.Equal(t, render(t, first), render(t, second))
}

func TestRender_HeaderAndCollapsedColumns(t *testing.T) {
	table := newTestTable(t, func(c *Config[testRow]) { c.HXTarget = "#grading" })
	st := table.Resolve(context.Background(), 1, url.Values{ParamSort: {"score"}, ParamDir: {"desc"}})

	page, err := table.Build(context.Background(), st, fiveRows())
	require.NoError(t, err)
	html := render(t, page)

	assert.Contains(t, html, `<span class="sort-indicator">▼</span>`)
	// Активная колонка по убыванию - ссылка ведёт на возрастание
	assert.Contains(t, html, "tdir=asc&amp;tsort=score")
	assert.Contains(t, html, "tdir=asc&amp;tsort=name")
	// Базовые параметры адреса сохраняются
	assert.Contains(t, html, "scope=course")
	assert.Contains(t, html, `hx-target="#grading"`)
	// Заметки скрыты по умолчанию: заголовок только со ссылкой показа, значений нет
	assert.Contains(t, html, "tshow=notes")
	assert.NotContains(t, html, "note ")
}

func TestRender_NoPagerForSinglePage(t *testing.T) {
	table := newTestTable(t, func(c *Config[testRow]) { c.PageSize = 50 })

	page, err := table.Build(context.Background(), State{Sort: "name"}, fiveRows())
	require.NoError(t, err)

	assert.NotContains(t, render(t, page), "pagination")
}

func TestPagerLinks(t *testing.T) {
	labels := func(items []pagerItem) string {
		parts := make([]string, len(items))
		for i, it := range items {
			parts[i] = it.Label
			if it.Current {
				parts[i] = "[" + it.Label + "]"
			}
		}
		return strings.Join(parts, " ")
	}

	assert.Nil(t, pagerLinks(0, 1))
	assert.Equal(t, "[1] 2 3 »", labels(pagerLinks(0, 3)))
	assert.Equal(t, "« 1 … 4 5 [6] 7 8 … 20 »", labels(pagerLinks(5, 20)))
	assert.Equal(t, "« 1 2 3 [4] 5 6 »", labels(pagerLinks(3, 6)))
	assert.Equal(t, "« 1 … 8 9 [10]", labels(pagerLinks(9, 10)))
}

func TestWithBaseURL(t *testing.T) {
	table := newTestTable(t)
	other, _ := url.Parse("/mod/scheduler/9/grade?scope=site")

	copyTable := table.WithBaseURL(other)
	st := table.DefaultState()

	assert.Contains(t, copyTable.SortLink(st, "score"), "/mod/scheduler/9/grade?scope=site")
	assert.Contains(t, table.SortLink(st, "score"), "/mod/scheduler/7/grade?scope=course")
}
