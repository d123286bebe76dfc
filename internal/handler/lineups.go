package handler

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/scheduler"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/utils"
)

func (h *Handler) GetLineup(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)

	lineup, err := h.repository.GetLineupByShowID(show.ID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.successResponse(w, r, "该演出还没有节目单", nil)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "获取节目单成功", lineup)
}

func (h *Handler) SubmitLineup(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)

	var req struct {
		Slots []struct {
			Position       int32  `json:"position" validate:"gte=0"`
			RoutineID      *int64 `json:"routineID" validate:"required_without=IsIntermission"`
			IsIntermission bool   `json:"isIntermission"`
		} `json:"slots" validate:"required,min=1,dive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	submitted := &domain.Lineup{
		ShowID: show.ID,
		Slots:  make([]domain.LineupSlot, 0, len(req.Slots)),
	}
	for _, slot := range req.Slots {
		submitted.Slots = append(submitted.Slots, domain.LineupSlot{
			Position:       slot.Position,
			RoutineID:      slot.RoutineID,
			IsIntermission: slot.IsIntermission,
		})
	}

	routines, err := h.repository.GetRoutinesByShowID(show.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 必须检查提交的节目单是否和演出中的节目对的上
	if err := utils.ValidateLineupWithRoutines(submitted, show, routines); err != nil {
		h.badRequest(w, r, err)
		return
	}

	s, err := h.newScheduler(show, routines, h.schedulerOptions())
	if err != nil {
		h.schedulerError(w, r, err)
		return
	}

	sched, err := scheduler.ScheduleFromLineup(submitted, routines)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := s.Adopt(sched); err != nil {
		h.schedulerError(w, r, err)
		return
	}

	lineup := s.Lineup(show.ID, routines, s.ScoreSchedule(s.Schedule()))
	if err := h.repository.InsertLineup(lineup); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "提交节目单成功", lineup)
}

func (h *Handler) GenerateLineup(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.User)

	// 参数都是可选的，不填则使用配置中的值
	var req struct {
		BeamWidth *int  `json:"beamWidth" validate:"omitempty,min=1,max=10"`
		Parallel  *bool `json:"parallel"`
	}

	if r.ContentLength != 0 {
		if err := h.readJSON(r, &req); err != nil {
			h.badRequest(w, r, err)
			return
		}
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	opts := h.schedulerOptions()
	if req.BeamWidth != nil {
		opts.BeamWidth = *req.BeamWidth
	}
	if req.Parallel != nil {
		opts.Parallel = *req.Parallel
	}

	// 同一场演出同一时间只允许生成一次
	lockKey := fmt.Sprintf("lineup_generating_%d", show.ID)

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
	defer cancel()

	acquired, err := h.redisClient.SetNX(ctx, lockKey, myInfo.Username, time.Duration(h.config.Scheduler.GenerateLockExpiration)*time.Second).Result()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !acquired {
		h.errorResponse(w, r, "该演出的节目单正在生成中，请稍后再试")
		return
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Duration(h.config.Redis.OperationExpiration)*time.Second)
		defer cancel()
		if err := h.redisClient.Del(ctx, lockKey).Err(); err != nil {
			slog.Error("释放节目单生成锁失败", "show", show.ID, "error", err)
		}
	}()

	routines, err := h.repository.GetRoutinesByShowID(show.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if len(routines) == 0 {
		h.errorResponse(w, r, "该演出还没有节目")
		return
	}

	s, err := h.newScheduler(show, routines, opts)
	if err != nil {
		h.schedulerError(w, r, err)
		return
	}

	// 自动排序
	searchCtx, cancelSearch := context.WithTimeout(r.Context(), time.Duration(h.config.Scheduler.SearchTimeout)*time.Second)
	defer cancelSearch()

	start := time.Now()
	res, err := s.Place(searchCtx)
	if err != nil {
		h.schedulerError(w, r, err)
		return
	}

	slog.Info(
		"已生成节目单",
		"show", show.ID,
		"routines", len(routines),
		"beamWidth", s.Options().BeamWidth,
		"parallel", s.Options().Parallel,
		"expanded", res.Expanded,
		"score", res.Score,
		"duration", time.Since(start),
	)

	lineup := s.Lineup(show.ID, routines, res.Score)
	if err := h.repository.InsertLineup(lineup); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	// 节目单已经保存，邮件发送失败不影响结果
	mailMessage := domain.MailMessage{
		Type: "lineup_generated",
		To:   myInfo.Email,
		Data: domain.LineupGeneratedMailData{
			FullName: myInfo.FullName,
			ShowName: show.Name,
			Slots:    lineup.Slots,
			Warnings: lineup.Warnings,
		},
	}
	if err := h.publishMail(mailMessage); err != nil {
		slog.Error("发送节目单邮件失败", "show", show.ID, "to", myInfo.Email, "error", err)
	}

	h.successResponse(w, r, "自动生成节目单成功", lineup)
}

func (h *Handler) schedulerOptions() scheduler.Options {
	return scheduler.Options{
		IntermissionLength: h.config.Scheduler.IntermissionLength,
		BeamWidth:          h.config.Scheduler.BeamWidth,
		ConflictPolicy:     scheduler.ConflictPolicy(h.config.Scheduler.ConflictPolicy),
		Parallel:           h.config.Scheduler.Parallel,
	}
}

func (h *Handler) newScheduler(show *domain.Show, routines []*domain.Routine, base scheduler.Options) (*scheduler.Scheduler, error) {
	roster, err := scheduler.BuildRoster(routines)
	if err != nil {
		return nil, err
	}

	s, err := scheduler.New(roster, scheduler.ShowOptions(show, base))
	if err != nil {
		return nil, err
	}

	for _, warning := range s.Warnings() {
		slog.Warn("节目单构造警告", "show", show.ID, "routine", warning.Routine, "message", warning.Message)
	}

	return s, nil
}

// schedulerError 把排序过程中的错误转换为给用户的提示，其余错误视为服务器内部错误
func (h *Handler) schedulerError(w http.ResponseWriter, r *http.Request, err error) {
	var conflictErr *scheduler.PlacementConflictError
	switch {
	case errors.As(err, &conflictErr):
		h.errorResponse(w, r, conflictErr.Error())
	case errors.Is(err, scheduler.ErrIntermissionOutOfRange),
		errors.Is(err, scheduler.ErrIntermissionUnplaceable),
		errors.Is(err, scheduler.ErrNoOpenPosition),
		errors.Is(err, scheduler.ErrIncompleteSchedule),
		errors.Is(err, scheduler.ErrFixedRoutineMoved),
		errors.Is(err, scheduler.ErrInvalidBeamWidth):
		h.errorResponse(w, r, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		h.errorResponse(w, r, "生成节目单超时，请减小搜索宽度后重试")
	default:
		h.internalServerError(w, r, err)
	}
}
