// Package web HTTP-слой: маршруты, промежуточные обработчики и обработчики страниц обзора
package web

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/grid"
	"github.com/Freeeeeet/scheduler_grading/internal/metrics"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/service"
	"github.com/Freeeeeet/scheduler_grading/internal/view"
)

// ActionPath адрес изменения записи
const ActionPath = "/mod/scheduler/ajax"

type GradingService interface {
	Overview(ctx context.Context, actor *model.User, cmid int64, q url.Values) (*service.Overview, error)
}

type AppointmentService interface {
	SaveGrade(ctx context.Context, actor *model.User, cmid, appointmentID int64, grade int) error
	SaveAttendance(ctx context.Context, actor *model.User, cmid, appointmentID int64, attended bool) error
}

type ExportService interface {
	Export(ctx context.Context, scheduler *model.Scheduler, src grid.Source[model.GradingRow], sort string, desc bool) (*bytes.Buffer, string, error)
}

var (
	_ GradingService     = (*service.GradingService)(nil)
	_ AppointmentService = (*service.AppointmentService)(nil)
	_ ExportService      = (*service.ExportService)(nil)
)

type Handler struct {
	grading      GradingService
	appointments AppointmentService
	export       ExportService
	table        *grid.Table[view.Row]
	metrics      *metrics.Metrics
	location     *time.Location
	logger       *zap.Logger
}

func NewHandler(
	grading GradingService,
	appointments AppointmentService,
	export ExportService,
	table *grid.Table[view.Row],
	m *metrics.Metrics,
	location *time.Location,
	logger *zap.Logger,
) *Handler {
	if location == nil {
		location = time.UTC
	}
	return &Handler{
		grading:      grading,
		appointments: appointments,
		export:       export,
		table:        table,
		metrics:      m,
		location:     location,
		logger:       logger,
	}
}

// Health GET /health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// loadOverview общая часть страницы обзора и выгрузки
func (h *Handler) loadOverview(c *gin.Context) (*model.User, *service.Overview, bool) {
	actor, ok := MustGetUser(c)
	if !ok {
		return nil, nil, false
	}

	cmid, err := strconv.ParseInt(c.Param("cmid"), 10, 64)
	if err != nil || cmid <= 0 {
		NotFound(c, "Активность не найдена")
		return nil, nil, false
	}

	ov, err := h.grading.Overview(c.Request.Context(), actor, cmid, c.Request.URL.Query())
	if err != nil {
		if errors.Is(err, service.ErrSchedulerNotFound) {
			NotFound(c, "Активность не найдена")
		} else {
			_ = c.Error(err)
			InternalError(c)
		}
		return nil, nil, false
	}
	return actor, ov, true
}

// overviewQuery параметры, которые сохраняются во всех ссылках таблицы
func overviewQuery(req service.GradingRequest) url.Values {
	return url.Values{
		service.ParamScope:     {string(req.Scope)},
		service.ParamTeacherID: {strconv.FormatInt(req.TeacherID, 10)},
	}
}

// Overview GET /mod/scheduler/:cmid/grade
func (h *Handler) Overview(c *gin.Context) {
	actor, ov, ok := h.loadOverview(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()

	path := c.Request.URL.Path
	base := overviewQuery(ov.Request)
	table := h.table.WithBaseURL(&url.URL{Path: path, RawQuery: base.Encode()})

	st := table.Resolve(ctx, actor.ID, c.Request.URL.Query())
	env := &view.Env{
		ActivityScale: ov.Scheduler.Scale,
		ActionURL:     ActionPath,
		CSRFToken:     csrf.Token(c.Request),
		Location:      h.location,
	}
	page, err := table.Build(ctx, st, view.WrapSource(ov.Source, env))
	if err != nil {
		h.logger.Error("Failed to build grading page",
			zap.Int64("cmid", ov.Scheduler.CMID), zap.Error(err))
		_ = c.Error(err)
		InternalError(c)
		return
	}

	h.metrics.OverviewRenders.WithLabelValues(string(ov.Request.Scope)).Inc()

	data := view.GradingData{
		SchedulerName: ov.Scheduler.Name,
		PageURL:       path,
		ExportURL:     path + "/export?" + base.Encode(),
		Scope:         ov.Request.Scope,
		Scopes:        ov.Scopes,
		TeacherID:     ov.Request.TeacherID,
		SelfID:        actor.ID,
		Teachers:      ov.Teachers,
		Page:          page,
	}

	c.Status(http.StatusOK)
	if err := view.RenderWithLayout(c.Writer, c.Request, "Оценки: "+ov.Scheduler.Name,
		view.GradingPage(data), view.GridFragment(page)); err != nil {
		h.logger.Error("Failed to render grading page", zap.Error(err))
		_ = c.Error(err)
	}
}

// Export GET /mod/scheduler/:cmid/grade/export
func (h *Handler) Export(c *gin.Context) {
	actor, ov, ok := h.loadOverview(c)
	if !ok {
		return
	}

	st := h.table.Resolve(c.Request.Context(), actor.ID, c.Request.URL.Query())
	buf, filename, err := h.export.Export(c.Request.Context(), ov.Scheduler, ov.Source, st.Sort, st.Desc)
	if err != nil {
		_ = c.Error(err)
		InternalError(c)
		return
	}

	const xlsx = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+url.QueryEscape(filename))
	c.Data(http.StatusOK, xlsx, buf.Bytes())
}
