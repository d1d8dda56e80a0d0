package view

import (
	"github.com/a-h/templ"

	"github.com/Freeeeeet/scheduler_grading/internal/grid"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
)

// EmptyNotice текст вместо пустой таблицы
const EmptyNotice = "Нет записей для выбранных параметров"

var scopeLabels = map[model.Scope]string{
	model.ScopeActivity: "Эта активность",
	model.ScopeCourse:   "Этот курс",
	model.ScopeSite:     "Весь сайт",
}

// GradingData всё, что выводится на странице обзора
type GradingData struct {
	SchedulerName string
	PageURL       string // адрес страницы обзора без параметров
	ExportURL     string
	Scope         model.Scope
	Scopes        []model.Scope // nil - меню не показывается
	TeacherID     int64
	SelfID        int64        // текущий пользователь, в меню учителей это "Я"
	Teachers      []model.User // nil - меню не показывается
	Page          *grid.Page[Row]
}

// GridFragment таблица или уведомление о пустом результате; заменяется при htmx-запросах
func GridFragment(page *grid.Page[Row]) templ.Component {
	if page == nil || page.Empty() {
		return Notice(GridWrapID, EmptyNotice)
	}
	return page.Component()
}
