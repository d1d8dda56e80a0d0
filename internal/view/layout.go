package view

import (
	"net/http"

	"github.com/a-h/templ"
)

// IsFragmentRequest запрос пришёл от htmx и ждёт только изменяемый фрагмент
func IsFragmentRequest(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// RenderWithLayout рендерит фрагмент для htmx-запроса и полную страницу для обычного
func RenderWithLayout(w http.ResponseWriter, r *http.Request, title string, page, fragment templ.Component) error {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if IsFragmentRequest(r) {
		return fragment.Render(r.Context(), w)
	}
	return Layout(title, page).Render(r.Context(), w)
}
