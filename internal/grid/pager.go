package grid

import "strconv"

// pagerWindow сколько соседних страниц показывать слева и справа от текущей
const pagerWindow = 2

type pagerItem struct {
	Label   string
	Page    int
	Current bool
	Gap     bool // многоточие, без ссылки
}

// pagerLinks собирает элементы постраничной навигации: назад, первая страница,
// окно вокруг текущей, последняя, вперёд. current с нуля
func pagerLinks(current, pages int) []pagerItem {
	if pages <= 1 {
		return nil
	}

	var items []pagerItem

	if current > 0 {
		items = append(items, pagerItem{Label: "«", Page: current - 1})
	}

	start := max(current-pagerWindow, 0)
	end := min(current+pagerWindow, pages-1)

	if start > 0 {
		items = append(items, numbered(0, current))
		if start > 1 {
			items = append(items, pagerItem{Label: "…", Gap: true})
		}
	}
	for p := start; p <= end; p++ {
		items = append(items, numbered(p, current))
	}
	if end < pages-1 {
		if end < pages-2 {
			items = append(items, pagerItem{Label: "…", Gap: true})
		}
		items = append(items, numbered(pages-1, current))
	}

	if current < pages-1 {
		items = append(items, pagerItem{Label: "»", Page: current + 1})
	}

	return items
}

func numbered(page, current int) pagerItem {
	return pagerItem{Label: strconv.Itoa(page + 1), Page: page, Current: page == current}
}
