// Package preference хранит пользовательские настройки таблиц: сортировку и скрытые колонки.
// Настройки носят рекомендательный характер, поэтому одновременные запросы одного
// пользователя разрешаются по правилу "последняя запись побеждает".
package preference

import "context"

// Preference сохранённое состояние таблицы для пары (пользователь, таблица)
type Preference struct {
	SortColumn string   `json:"sort_column"`
	SortDesc   bool     `json:"sort_desc"`
	Collapsed  []string `json:"collapsed"`
}

// Equal сравнивает настройки без учёта порядка скрытых колонок
func (p Preference) Equal(o Preference) bool {
	if p.SortColumn != o.SortColumn || p.SortDesc != o.SortDesc || len(p.Collapsed) != len(o.Collapsed) {
		return false
	}
	seen := make(map[string]struct{}, len(p.Collapsed))
	for _, c := range p.Collapsed {
		seen[c] = struct{}{}
	}
	for _, c := range o.Collapsed {
		if _, ok := seen[c]; !ok {
			return false
		}
	}
	return true
}

// Store чтение и запись настроек по составному ключу.
// Get возвращает nil, nil если настройки ещё не сохранялись
type Store interface {
	Get(ctx context.Context, userID int64, gridID string) (*Preference, error)
	Set(ctx context.Context, userID int64, gridID string, pref Preference) error
}
