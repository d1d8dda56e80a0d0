package web

import (
	"errors"
	"net/http"
	"net/url"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/service"
)

const (
	ActionSaveGrade = "savegrade"
	ActionSaveSeen  = "saveseen"
)

// updateForm поля формы изменения записи; id - cmid планировщика
type updateForm struct {
	Action        string  `form:"action" binding:"required,oneof=savegrade saveseen"`
	CMID          int64   `form:"id" binding:"required,gt=0"`
	AppointmentID int64   `form:"appointmentid" binding:"required,gt=0"`
	Grade         string  `form:"grade"`
	Seen          string  `form:"seen"`
	SeenList      []int64 `form:"seen[]"`
}

var formFieldNames = map[string]string{
	"Action":        "action",
	"CMID":          "id",
	"AppointmentID": "appointmentid",
}

// validationDetails поле формы -> нарушенное правило
func validationDetails(err error) map[string]string {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return nil
	}
	details := make(map[string]string, len(ve))
	for _, fe := range ve {
		name, ok := formFieldNames[fe.Field()]
		if !ok {
			name = fe.Field()
		}
		details[name] = fe.Tag()
	}
	return details
}

// attended значение seen из скрипта ("1"/"0") или список отмеченных чекбоксов формы без JS
func (f *updateForm) attended() (bool, bool) {
	switch f.Seen {
	case "1", "true", "on":
		return true, true
	case "0", "false", "off":
		return false, true
	case "":
		return slices.Contains(f.SeenList, f.AppointmentID), true
	}
	return false, false
}

// Update POST /mod/scheduler/ajax
func (h *Handler) Update(c *gin.Context) {
	actor, ok := MustGetUser(c)
	if !ok {
		return
	}

	var form updateForm
	if err := c.ShouldBind(&form); err != nil {
		if details := validationDetails(err); details != nil {
			ValidationError(c, details)
			return
		}
		BadRequest(c, "Некорректный запрос")
		return
	}

	ctx := c.Request.Context()
	var err error
	switch form.Action {
	case ActionSaveGrade:
		var grade int
		grade, err = service.ParseGrade(form.Grade)
		if err == nil {
			err = h.appointments.SaveGrade(ctx, actor, form.CMID, form.AppointmentID, grade)
		}
	case ActionSaveSeen:
		attended, valid := form.attended()
		if !valid {
			ValidationError(c, map[string]string{"seen": "oneof"})
			return
		}
		err = h.appointments.SaveAttendance(ctx, actor, form.CMID, form.AppointmentID, attended)
	}

	if err != nil {
		h.metrics.AppointmentSaves.WithLabelValues(form.Action, "error").Inc()
		h.writeUpdateError(c, err, form)
		return
	}
	h.metrics.AppointmentSaves.WithLabelValues(form.Action, "ok").Inc()

	// Форма без JS возвращается на страницу, с которой её отправили
	if c.GetHeader("X-Requested-With") == "" {
		if back, ok := sameHostReferer(c.Request); ok {
			c.Redirect(http.StatusSeeOther, back)
			return
		}
	}
	OK(c, nil)
}

func (h *Handler) writeUpdateError(c *gin.Context, err error, form updateForm) {
	switch {
	case errors.Is(err, service.ErrAppointmentNotFound):
		NotFound(c, "Запись не найдена")
	case errors.Is(err, service.ErrSchedulerMismatch):
		BadRequest(c, "Запись не относится к этой активности")
	case errors.Is(err, service.ErrInvalidGrade):
		BadRequest(c, "Недопустимая оценка")
	case errors.Is(err, service.ErrGradingDisabled):
		BadRequest(c, "Оценивание в активности отключено")
	case errors.Is(err, service.ErrNotAllowed):
		Forbidden(c, "Нет прав на изменение этой записи")
	default:
		h.logger.Error("Failed to update appointment",
			zap.String("action", form.Action),
			zap.Int64("appointment_id", form.AppointmentID),
			zap.Error(err))
		_ = c.Error(err)
		InternalError(c)
	}
}

func sameHostReferer(r *http.Request) (string, bool) {
	ref, err := url.Parse(r.Referer())
	if err != nil || ref.Host == "" || ref.Host != r.Host {
		return "", false
	}
	return ref.RequestURI(), true
}
