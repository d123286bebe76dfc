package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/utils"
)

func (h *Handler) GetAllShows(w http.ResponseWriter, r *http.Request) {
	shows, err := h.repository.GetAllShows()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "获取所有演出成功", shows)
}

func (h *Handler) CreateShow(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name                 string    `json:"name" validate:"required"`
		Description          string    `json:"description"`
		StartTime            time.Time `json:"startTime" validate:"required"`
		IntermissionLength   *int32    `json:"intermissionLength" validate:"omitempty,gt=0"`
		IntermissionPosition *int32    `json:"intermissionPosition" validate:"omitempty,gte=0"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	show := &domain.Show{
		Name:                 req.Name,
		Description:          req.Description,
		StartTime:            req.StartTime,
		IntermissionLength:   int32(h.config.Scheduler.IntermissionLength),
		IntermissionPosition: req.IntermissionPosition,
	}
	if req.IntermissionLength != nil {
		show.IntermissionLength = *req.IntermissionLength
	}

	if err := utils.ValidateShow(show); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateShow(show); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shows_name_key":
				h.errorResponse(w, r, "演出名称已存在")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "创建演出成功", show)
}

func (h *Handler) GetShow(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)

	h.successResponse(w, r, "获取演出成功", show)
}

func (h *Handler) UpdateShow(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)

	var req struct {
		Name               *string    `json:"name" validate:"omitempty,min=1"`
		Description        *string    `json:"description"`
		StartTime          *time.Time `json:"startTime"`
		IntermissionLength *int32     `json:"intermissionLength" validate:"omitempty,gt=0"`
		// 负数表示取消指定，由自动排序决定中场休息的位置
		IntermissionPosition *int32 `json:"intermissionPosition"`
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
		show.Name = *req.Name
	}
	if req.Description != nil {
		show.Description = *req.Description
	}
	if req.StartTime != nil {
		show.StartTime = *req.StartTime
	}
	if req.IntermissionLength != nil {
		show.IntermissionLength = *req.IntermissionLength
	}
	if req.IntermissionPosition != nil {
		if *req.IntermissionPosition < 0 {
			show.IntermissionPosition = nil
		} else {
			show.IntermissionPosition = req.IntermissionPosition
		}
	}

	if err := utils.ValidateShow(show); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateShow(show); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "shows_name_key":
				h.errorResponse(w, r, "演出名称已存在")
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

	h.successResponse(w, r, "更新演出成功", show)
}

func (h *Handler) DeleteShow(w http.ResponseWriter, r *http.Request) {
	show := r.Context().Value(ShowCtx).(*domain.Show)

	if err := h.repository.DeleteShow(show.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "删除演出成功", nil)
}
