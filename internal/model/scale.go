package model

import "strings"

// Scale именованная шкала оценок ("Плохо,Хорошо,Отлично"), значения 1..len(Items)
type Scale struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

// ParseScaleItems разбирает список пунктов шкалы через запятую
func ParseScaleItems(raw string) []string {
	parts := strings.Split(raw, ",")
	items := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			items = append(items, p)
		}
	}
	return items
}

// ScaleID возвращает id шкалы для отрицательного значения scale, иначе 0
func ScaleID(scale int) int64 {
	if scale < 0 {
		return int64(-scale)
	}
	return 0
}
