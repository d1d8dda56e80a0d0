package grid

import (
	"context"
	"net/url"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/preference"
)

// Параметры запроса, которыми управляется таблица
const (
	ParamSort = "tsort"
	ParamDir  = "tdir"
	ParamPage = "page"
	ParamHide = "thide"
	ParamShow = "tshow"

	dirAsc  = "asc"
	dirDesc = "desc"
)

// State состояние таблицы на время одного запроса
type State struct {
	Sort      string
	Desc      bool
	Page      int // с нуля
	Collapsed map[string]bool
}

// CollapsedList отсортированный список скрытых колонок
func (s State) CollapsedList() []string {
	list := make([]string, 0, len(s.Collapsed))
	for id, hidden := range s.Collapsed {
		if hidden {
			list = append(list, id)
		}
	}
	sort.Strings(list)
	return list
}

// DefaultState состояние без сохранённых настроек и параметров
func (t *Table[R]) DefaultState() State {
	st := State{Sort: t.defaultSort, Collapsed: map[string]bool{}}
	for _, col := range t.columns {
		if col.HiddenByDefault {
			st.Collapsed[col.ID] = true
		}
	}
	return st
}

// Resolve собирает состояние: значения по умолчанию, поверх них сохранённые настройки
// пользователя, поверх них параметры запроса. Изменённые сортировка и скрытие колонок
// сохраняются обратно. Ошибки хранилища настроек только логируются
func (t *Table[R]) Resolve(ctx context.Context, userID int64, q url.Values) State {
	st := t.DefaultState()

	var stored *preference.Preference
	if t.prefs != nil {
		pref, err := t.prefs.Get(ctx, userID, t.id)
		if err != nil {
			t.logger.Warn("Failed to load grid preference",
				zap.String("grid", t.id), zap.Int64("user_id", userID), zap.Error(err))
		}
		if pref != nil {
			stored = pref
			t.applyPreference(&st, *pref)
		}
	}

	t.applyQuery(&st, q)

	if t.prefs != nil {
		next := st.preference()
		if stored == nil || !stored.Equal(next) {
			if err := t.prefs.Set(ctx, userID, t.id, next); err != nil {
				t.logger.Warn("Failed to save grid preference",
					zap.String("grid", t.id), zap.Int64("user_id", userID), zap.Error(err))
			}
		}
	}

	return st
}

func (t *Table[R]) applyPreference(st *State, pref preference.Preference) {
	if t.sortable(pref.SortColumn) {
		st.Sort = pref.SortColumn
		st.Desc = pref.SortDesc
	}
	st.Collapsed = map[string]bool{}
	for _, id := range pref.Collapsed {
		if t.collapsible(id) {
			st.Collapsed[id] = true
		}
	}
}

func (t *Table[R]) applyQuery(st *State, q url.Values) {
	if col := q.Get(ParamSort); t.sortable(col) {
		switch q.Get(ParamDir) {
		case dirAsc:
			st.Desc = false
		case dirDesc:
			st.Desc = true
		default:
			// Повторный клик по активной колонке меняет направление, новая колонка - всегда по возрастанию
			if col == st.Sort {
				st.Desc = !st.Desc
			} else {
				st.Desc = false
			}
		}
		st.Sort = col
	}

	if col := q.Get(ParamHide); t.collapsible(col) {
		st.Collapsed[col] = true
	}
	if col := q.Get(ParamShow); col != "" {
		delete(st.Collapsed, col)
	}

	if page, err := strconv.Atoi(q.Get(ParamPage)); err == nil && page > 0 {
		st.Page = page
	}
}

func (s State) preference() preference.Preference {
	return preference.Preference{
		SortColumn: s.Sort,
		SortDesc:   s.Desc,
		Collapsed:  s.CollapsedList(),
	}
}

// link строит URL таблицы: базовый адрес плюс переданные параметры
func (t *Table[R]) link(params map[string]string) string {
	u := t.baseURL
	q := u.Query()
	for k, v := range params {
		q.Set(k, v)
	}
	u.RawQuery = q.Encode()
	return u.String()
}

// SortLink ссылка заголовка: активная колонка переключает направление, остальные - по возрастанию
func (t *Table[R]) SortLink(st State, col string) string {
	dir := dirAsc
	if col == st.Sort && !st.Desc {
		dir = dirDesc
	}
	return t.link(map[string]string{ParamSort: col, ParamDir: dir})
}

// PageLink ссылка на страницу с сохранением текущей сортировки
func (t *Table[R]) PageLink(st State, page int) string {
	dir := dirAsc
	if st.Desc {
		dir = dirDesc
	}
	return t.link(map[string]string{ParamSort: st.Sort, ParamDir: dir, ParamPage: strconv.Itoa(page)})
}

// ToggleLink ссылка скрытия или показа колонки
func (t *Table[R]) ToggleLink(st State, col string) string {
	if st.Collapsed[col] {
		return t.link(map[string]string{ParamShow: col})
	}
	return t.link(map[string]string{ParamHide: col})
}
