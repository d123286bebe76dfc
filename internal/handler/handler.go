package handler

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/zh"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	zh_translations "github.com/go-playground/validator/v10/translations/zh"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/redis/go-redis/v9"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/config"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/domain"
	"github.com/sysu-ecnc-dev/recital-scheduler/backend/internal/repository"
)

type Handler struct {
	validate    *validator.Validate
	config      *config.Config
	repository  *repository.Repository
	translator  ut.Translator
	mailChannel *amqp.Channel
	redisClient *redis.Client

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, repo *repository.Repository, mailCh *amqp.Channel, rdb *redis.Client) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	zh := zh.New()
	uni := ut.New(zh, zh)
	trans, _ := uni.GetTranslator("zh")
	if err := zh_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	return &Handler{
		validate:    validate,
		config:      cfg,
		repository:  repo,
		translator:  trans,
		mailChannel: mailCh,
		redisClient: rdb,

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	director := h.RequiredRole([]domain.Role{domain.RoleDirector})
	editor := h.RequiredRole([]domain.Role{domain.RoleDirector, domain.RoleChoreographer})

	// 认证相关
	h.Mux.Route("/auth", func(r chi.Router) {
		r.Post("/login", h.Login)
		r.Post("/logout", h.Logout)
		r.Route("/reset-password", func(r chi.Router) {
			r.Post("/require", h.RequireResetPassword)
			r.Post("/confirm", h.ConfirmResetPassword)
		})
	})

	// 以下 API 必须要在登录后才允许调用
	h.Mux.Group(func(r chi.Router) {
		r.Use(h.auth)
		r.Route("/my-info", func(r chi.Router) {
			r.Use(h.myInfo)
			r.Get("/", h.GetMyInfo)
			r.Patch("/password", h.UpdateMyPassword)
			r.Route("/update-email", func(r chi.Router) {
				r.Post("/require", h.RequireUpdateEmail)
				r.Post("/confirm", h.ConfirmUpdateEmail)
			})
		})

		r.Route("/users", func(r chi.Router) {
			r.With(director).Post("/", h.CreateUser)
			r.Get("/", h.GetAllUserInfo)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.userInfo)
				r.Get("/", h.GetUserInfo)
				r.With(h.preventOperateInitialAdmin).With(director).Patch("/", h.UpdateUser)
				r.With(h.preventOperateInitialAdmin).With(director).Delete("/", h.DeleteUser)
				r.With(director).Patch("/password", h.UpdateUserPassword)
			})
		})

		r.Route("/shows", func(r chi.Router) {
			r.With(director).Post("/", h.CreateShow)
			r.Get("/", h.GetAllShows)
			r.Route("/{id}", func(r chi.Router) {
				r.Use(h.show)
				r.Get("/", h.GetShow)
				r.With(director).Patch("/", h.UpdateShow)
				r.With(director).Delete("/", h.DeleteShow)

				r.Route("/routines", func(r chi.Router) {
					r.Get("/", h.GetAllRoutines)
					r.With(editor).Post("/", h.CreateRoutine)
					r.Route("/{routineID}", func(r chi.Router) {
						r.Use(h.routine)
						r.Get("/", h.GetRoutine)
						r.With(editor).Patch("/", h.UpdateRoutine)
						r.With(editor).Delete("/", h.DeleteRoutine)
					})
				})

				r.Route("/lineup", func(r chi.Router) {
					r.Get("/", h.GetLineup)
					r.Group(func(r chi.Router) {
						// 只有导演能够决定节目单
						r.Use(director)
						r.Post("/", h.SubmitLineup)
						r.With(h.myInfo).Post("/generate", h.GenerateLineup)
					})
				})
			})
		})
	})
}
