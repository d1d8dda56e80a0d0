package formatting

import "strconv"

// NoGrade значение пункта "Без оценки" в списке выбора
const NoGrade = -1

// Choice пункт списка выбора оценки
type Choice struct {
	Value int
	Label string
}

// GradingChoices варианты оценки для шкалы: "Без оценки", затем 0..max баллов
// или пункты именованной шкалы (значения с 1). items нужны только для scale < 0
func GradingChoices(scale int, items []string) []Choice {
	choices := []Choice{{Value: NoGrade, Label: "Без оценки"}}

	switch {
	case scale > 0:
		for i := 0; i <= scale; i++ {
			choices = append(choices, Choice{Value: i, Label: strconv.Itoa(i)})
		}
	case scale < 0:
		for i, item := range items {
			choices = append(choices, Choice{Value: i + 1, Label: item})
		}
	}

	return choices
}

// ValidGrade входит ли значение в шкалу. NoGrade допустим для любой настроенной шкалы
func ValidGrade(scale int, items []string, grade int) bool {
	if scale == 0 {
		return false
	}
	if grade == NoGrade {
		return true
	}
	if scale > 0 {
		return grade >= 0 && grade <= scale
	}
	return grade >= 1 && grade <= len(items)
}

// FormatGrade оценка только для чтения: "7/10" для баллов, пункт шкалы для именованной шкалы.
// Пустая строка, если оценивание не настроено или оценки нет
func FormatGrade(scale int, items []string, grade *int) string {
	if scale == 0 || grade == nil {
		return ""
	}
	if scale > 0 {
		return strconv.Itoa(*grade) + "/" + strconv.Itoa(scale)
	}
	if *grade >= 1 && *grade <= len(items) {
		return items[*grade-1]
	}
	return ""
}

// SelectedGrade значение, которое должно быть выбрано в списке
func SelectedGrade(grade *int) int {
	if grade == nil {
		return NoGrade
	}
	return *grade
}
