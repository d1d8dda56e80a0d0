package service

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"go.uber.org/zap"

	"github.com/Freeeeeet/scheduler_grading/internal/grid"
	"github.com/Freeeeeet/scheduler_grading/internal/model"
	"github.com/Freeeeeet/scheduler_grading/internal/repository"
)

// Параметры страницы обзора
const (
	ParamScope     = "scope"
	ParamTeacherID = "teacherid"
)

// GradingRequest действующие scope и учитель после проверки прав
type GradingRequest struct {
	Scope     model.Scope
	TeacherID int64
}

// Overview всё, что нужно для страницы обзора, кроме самой таблицы
type Overview struct {
	Scheduler *model.Scheduler
	Request   GradingRequest
	Scopes    []model.Scope // nil - пользователь не может менять scope
	Teachers  []model.User  // nil - пользователь не может выбирать учителя
	Source    grid.Source[model.GradingRow]
}

type GradingService struct {
	gradingRepo   GradingRepository
	schedulerRepo SchedulerRepository
	userRepo      UserRepository
	perms         Permissions
	logger        *zap.Logger
}

func NewGradingService(
	gradingRepo GradingRepository,
	schedulerRepo SchedulerRepository,
	userRepo UserRepository,
	perms Permissions,
	logger *zap.Logger,
) *GradingService {
	return &GradingService{
		gradingRepo:   gradingRepo,
		schedulerRepo: schedulerRepo,
		userRepo:      userRepo,
		perms:         perms,
		logger:        logger,
	}
}

// Resolve разбирает scope и учителя из запроса. Неверные значения и значения сверх прав
// молча заменяются допустимыми
func (s *GradingService) Resolve(actor *model.User, q url.Values) GradingRequest {
	scope, ok := model.ParseScope(q.Get(ParamScope))
	if !ok && q.Get(ParamScope) != "" {
		s.logger.Debug("Unknown scope, using activity", zap.String("scope", q.Get(ParamScope)))
	}
	if scope != model.ScopeActivity && !s.perms.CanSeeOverviewOutsideActivity(actor) {
		s.logger.Debug("Scope downgraded to activity",
			zap.Int64("user_id", actor.ID), zap.String("requested", string(scope)))
		scope = model.ScopeActivity
	}

	var teacherID int64
	if raw := q.Get(ParamTeacherID); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			s.logger.Debug("Invalid teacher id, using self", zap.String("teacherid", raw))
		} else {
			teacherID = id
		}
	}
	if teacherID != 0 && teacherID != actor.ID && !s.perms.CanSeeOtherTeachers(actor, scope) {
		s.logger.Debug("Teacher filter downgraded to self",
			zap.Int64("user_id", actor.ID), zap.Int64("requested", teacherID))
		teacherID = 0
	}
	if teacherID == 0 {
		teacherID = actor.ID
	}

	return GradingRequest{Scope: scope, TeacherID: teacherID}
}

// Overview загружает планировщик, разбирает запрос и собирает меню и источник строк
func (s *GradingService) Overview(ctx context.Context, actor *model.User, cmid int64, q url.Values) (*Overview, error) {
	scheduler, err := s.schedulerRepo.GetByCMID(ctx, cmid)
	if err != nil {
		s.logger.Error("Failed to get scheduler", zap.Int64("cmid", cmid), zap.Error(err))
		return nil, fmt.Errorf("get scheduler: %w", err)
	}
	if scheduler == nil {
		return nil, ErrSchedulerNotFound
	}

	req := s.Resolve(actor, q)

	ov := &Overview{
		Scheduler: scheduler,
		Request:   req,
		Source:    s.Source(scheduler, req),
	}

	if s.perms.CanSeeOverviewOutsideActivity(actor) {
		ov.Scopes = []model.Scope{model.ScopeActivity, model.ScopeCourse, model.ScopeSite}
	}

	if s.perms.CanSeeOtherTeachers(actor, req.Scope) {
		teachers, err := s.userRepo.ListSlotTeachers(ctx, scheduler.ID)
		if err != nil {
			s.logger.Error("Failed to list slot teachers", zap.Int64("scheduler_id", scheduler.ID), zap.Error(err))
			return nil, fmt.Errorf("list slot teachers: %w", err)
		}
		for _, t := range teachers {
			ov.Teachers = append(ov.Teachers, *t)
		}
	}

	return ov, nil
}

// Source строки обзора для действующего запроса
func (s *GradingService) Source(scheduler *model.Scheduler, req GradingRequest) grid.Source[model.GradingRow] {
	return &gradingSource{
		repo:       s.gradingRepo,
		schedulers: s.schedulerRepo,
		filter: model.GradingFilter{
			TeacherID:   req.TeacherID,
			CourseID:    scheduler.CourseID,
			SchedulerID: scheduler.ID,
			Scope:       req.Scope,
		},
		scales: map[int64][]string{},
		logger: s.logger,
	}
}

// gradingSource источник строк для таблицы. Живёт один запрос, поэтому кэш шкал без блокировок
type gradingSource struct {
	repo       GradingRepository
	schedulers SchedulerRepository
	filter     model.GradingFilter
	scales     map[int64][]string
	logger     *zap.Logger
}

func (s *gradingSource) Count(ctx context.Context) (int, error) {
	total, err := s.repo.Count(ctx, s.filter)
	if err != nil {
		return 0, err
	}
	return int(total), nil
}

func (s *gradingSource) Fetch(ctx context.Context, q grid.Query) ([]model.GradingRow, error) {
	sort := repository.GradingSort{Column: q.Sort, Desc: q.Desc}
	if sort.Column != "" && !repository.IsSortableGradingColumn(sort.Column) {
		s.logger.Warn("Column is not sortable in query, using default order", zap.String("column", sort.Column))
		sort = repository.GradingSort{}
	}

	rows, err := s.repo.Page(ctx, s.filter, sort, q.Offset, q.Limit)
	if err != nil {
		return nil, err
	}

	out := make([]model.GradingRow, 0, len(rows))
	for _, row := range rows {
		if row.Scale < 0 {
			items, err := s.scaleItems(ctx, model.ScaleID(row.Scale))
			if err != nil {
				return nil, err
			}
			row.ScaleItems = items
		}
		out = append(out, *row)
	}

	return out, nil
}

func (s *gradingSource) scaleItems(ctx context.Context, id int64) ([]string, error) {
	if items, ok := s.scales[id]; ok {
		return items, nil
	}

	scale, err := s.schedulers.GetScale(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get scale %d: %w", id, err)
	}
	if scale == nil {
		s.logger.Warn("Scale not found", zap.Int64("scale_id", id))
	}

	items := scaleItemsOf(scale)
	s.scales[id] = items
	return items, nil
}

func scaleItemsOf(scale *model.Scale) []string {
	if scale == nil {
		return nil
	}
	return scale.Items
}
