package handler

import (
	"database/sql"
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/utils"
)

func (h *Handler) GetAllRoutines(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)

	routines, err := h.repository.GetRoutinesByShowID(show.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有节目成功", routines)
}

func (h *Handler) CreateRoutine(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)

	var req struct {
		Name       string   `json:"name" validate:"required"`
		Duration   *int32   `json:"duration" validate:"omitempty,gte=0"`
		Order      *int32   `json:"order" validate:"omitempty,gte=0"`
		HighEnergy bool     `json:"highEnergy"`
		Performers []string `json:"performers" validate:"dive,required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	performers, err := utils.NormalizePerformers(req.Performers)
	if err != nil {
		h.badRequest(w, r, err)
		return
	}

	routine := &domain.Routine{
		ShowID:     show.ID,
		Name:       req.Name,
		Duration:   req.Duration,
		Order:      req.Order,
		HighEnergy: req.HighEnergy,
		Performers: performers,
	}

	// 检查指定的位置，新节目会使节目单变长一个位置
	others, err := h.repository.GetRoutinesByShowID(show.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateRoutineOrder(routine, show, others, len(others)+1); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateRoutine(routine); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "routines_show_id_name_key":
				h.errorResponse(w, r, "该演出中已存在同名节目")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建节目成功", routine)
}

func (h *Handler) GetRoutine(w http.ResponseWriter, r *http.Request) {
	routine := r.Context().Value(RoutineCtx).(*domain.Routine)

	h.successResponse(w, r, "获取节目成功", routine)
}

func (h *Handler) UpdateRoutine(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)
	routine := r.Context().Value(RoutineCtx).(*domain.Routine)

	var req struct {
		Name *string `json:"name" validate:"omitempty,min=1"`
		// Duration 和 Order 为负数时表示清空
		Duration   *int32   `json:"duration"`
		Order      *int32   `json:"order"`
		HighEnergy *bool    `json:"highEnergy"`
		Performers []string `json:"performers" validate:"omitempty,dive,required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if req.Name != nil {
		routine.Name = *req.Name
	}
	if req.Duration != nil {
		if *req.Duration < 0 {
			routine.Duration = nil
		} else {
			routine.Duration = req.Duration
		}
	}
	if req.Order != nil {
		if *req.Order < 0 {
			routine.Order = nil
		} else {
			routine.Order = req.Order
		}
	}
	if req.HighEnergy != nil {
		routine.HighEnergy = *req.HighEnergy
	}
	if req.Performers != nil {
		performers, err := utils.NormalizePerformers(req.Performers)
		if err != nil {
			h.badRequest(w, r, err)
			return
		}
		routine.Performers = performers
	}

	others, err := h.repository.GetRoutinesByShowID(show.ID)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	if err := utils.ValidateRoutineOrder(routine, show, others, len(others)); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateRoutine(routine); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "routines_show_id_name_key":
				h.errorResponse(w, r, "该演出中已存在同名节目")
			default:
				h.internalServerError(w, r, err)
			}
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "请重试")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "更新节目成功", routine)
}

func (h *Handler) DeleteRoutine(w http.ResponseWriter, r *http.Request) {
	routine := r.Context().Value(RoutineCtx).(*domain.Routine)

	if err := h.repository.DeleteRoutine(routine.ID); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "lineup_slots_routine_id_fkey":
				h.errorResponse(w, r, "该节目已在节目单中，请先重新生成节目单")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "删除节目成功", nil)
}
