package grid

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
)

const (
	indicatorAsc  = "▲"
	indicatorDesc = "▼"
)

// Component рендерит страницу: заголовок, строки, навигацию по страницам.
// Для одинакового состояния и одинаковых строк вывод побайтно совпадает
func (p *Page[R]) Component() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder

		fmt.Fprintf(&b, `<div class="grid" id="%s-wrap">`, templ.EscapeString(p.table.tableID))
		fmt.Fprintf(&b, `<table id="%s" class="%s">`,
			templ.EscapeString(p.table.tableID), templ.EscapeString(p.table.tableClass))

		p.writeHeader(&b)

		body, err := p.renderBody(ctx)
		if err != nil {
			return err
		}
		b.WriteString(body)
		b.WriteString(`</table>`)

		p.writePager(&b)
		b.WriteString(`</div>`)

		_, err = io.WriteString(w, b.String())
		return err
	})
}

func (p *Page[R]) writeHeader(b *strings.Builder) {
	t := p.table
	st := p.State

	b.WriteString(`<thead><tr>`)
	for i, col := range t.columns {
		fmt.Fprintf(b, `<th class="header c%d%s" data-column="%s" scope="col">`,
			i, classSuffix(col.Class), templ.EscapeString(col.ID))

		if st.Collapsed[col.ID] {
			t.writeLink(b, t.ToggleLink(st, col.ID), "+", "toggle show", "Показать "+col.Header)
			b.WriteString(`</th>`)
			continue
		}

		if col.NoSort {
			b.WriteString(templ.EscapeString(col.Header))
		} else {
			t.writeLink(b, t.SortLink(st, col.ID), col.Header, "sort", "")
			if col.ID == st.Sort {
				indicator := indicatorAsc
				if st.Desc {
					indicator = indicatorDesc
				}
				fmt.Fprintf(b, ` <span class="sort-indicator">%s</span>`, indicator)
			}
		}

		if col.Collapsible {
			b.WriteString(` `)
			t.writeLink(b, t.ToggleLink(st, col.ID), "−", "toggle hide", "Скрыть "+col.Header)
		}
		b.WriteString(`</th>`)
	}
	b.WriteString(`</tr></thead>`)
}

// renderBody рендерит строки; ячейки подавляемых колонок сравниваются с предыдущей
// строкой по уже отрендеренному значению
func (p *Page[R]) renderBody(ctx context.Context) (string, error) {
	t := p.table
	var b strings.Builder
	prev := make([]string, len(t.columns))

	b.WriteString(`<tbody>`)
	for r, row := range p.Rows {
		fmt.Fprintf(&b, `<tr class="r%d">`, r%2)
		for i, col := range t.columns {
			fmt.Fprintf(&b, `<td class="cell c%d%s">`, i, classSuffix(col.Class))

			if p.State.Collapsed[col.ID] {
				b.WriteString(`</td>`)
				continue
			}

			cell, err := renderCell(ctx, t.renderers[col.ID], row)
			if err != nil {
				return "", fmt.Errorf("render column %s: %w", col.ID, err)
			}

			if !(col.Suppress && r > 0 && cell == prev[i]) {
				b.WriteString(cell)
			}
			prev[i] = cell
			b.WriteString(`</td>`)
		}
		b.WriteString(`</tr>`)
	}
	b.WriteString(`</tbody>`)

	return b.String(), nil
}

func (p *Page[R]) writePager(b *strings.Builder) {
	items := pagerLinks(p.State.Page, p.Pages)
	if len(items) == 0 {
		return
	}

	b.WriteString(`<nav class="paging"><ul class="pagination">`)
	for _, item := range items {
		switch {
		case item.Gap:
			fmt.Fprintf(b, `<li class="page-item disabled"><span>%s</span></li>`, item.Label)
		case item.Current:
			fmt.Fprintf(b, `<li class="page-item active"><span>%s</span></li>`, item.Label)
		default:
			b.WriteString(`<li class="page-item">`)
			p.table.writeLink(b, p.table.PageLink(p.State, item.Page), item.Label, "page-link", "")
			b.WriteString(`</li>`)
		}
	}
	b.WriteString(`</ul></nav>`)
}

func (t *Table[R]) writeLink(b *strings.Builder, href, label, class, title string) {
	href = templ.EscapeString(href)
	fmt.Fprintf(b, `<a href="%s" class="%s"`, href, class)
	if title != "" {
		fmt.Fprintf(b, ` title="%s"`, templ.EscapeString(title))
	}
	if t.hxTarget != "" {
		fmt.Fprintf(b, ` hx-get="%s" hx-target="%s" hx-swap="outerHTML" hx-push-url="true"`,
			href, templ.EscapeString(t.hxTarget))
	}
	fmt.Fprintf(b, `>%s</a>`, templ.EscapeString(label))
}

func renderCell[R any](ctx context.Context, fn CellFunc[R], row R) (string, error) {
	c := fn(row)
	if c == nil {
		return "", nil
	}
	var buf bytes.Buffer
	if err := c.Render(ctx, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func classSuffix(class string) string {
	if class == "" {
		return ""
	}
	return " " + templ.EscapeString(class)
}
