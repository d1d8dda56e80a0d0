package formatting

import (
	"fmt"
	"time"
)

const (
	dateLayout     = "02.01.2006"
	dateTimeLayout = "02.01.2006 15:04"
	timeLayout     = "15:04"
)

// FormatDate форматирует только дату
func FormatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// FormatSlotTime время слота в часовом поясе loc: "дата начало-конец" при ненулевой
// длительности, иначе только дата. Если слот переходит через полночь, у конца тоже есть дата
func FormatSlotTime(start time.Time, duration int, loc *time.Location) string {
	if loc != nil {
		start = start.In(loc)
	}
	if duration <= 0 {
		return FormatDate(start)
	}

	end := start.Add(time.Duration(duration) * time.Minute)
	if sameDay(start, end) {
		return fmt.Sprintf("%s-%s", start.Format(dateTimeLayout), end.Format(timeLayout))
	}
	return fmt.Sprintf("%s-%s", start.Format(dateTimeLayout), end.Format(dateTimeLayout))
}

// FormatDuration форматирует длительность в минутах
func FormatDuration(minutes int) string {
	if minutes < 60 {
		return fmt.Sprintf("%d мин", minutes)
	}
	hours := minutes / 60
	mins := minutes % 60
	if mins == 0 {
		return fmt.Sprintf("%d ч", hours)
	}
	return fmt.Sprintf("%d ч %d мин", hours, mins)
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
