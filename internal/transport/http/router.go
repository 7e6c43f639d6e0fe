package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/anshul4117/Blog/internal/service"
	"github.com/anshul4117/Blog/internal/transport/http/handlers"
	"github.com/anshul4117/Blog/internal/transport/http/middleware"
)

// Options — параметры сборки HTTP-роутера.
type Options struct {
	Logger   *slog.Logger
	Timeout  time.Duration
	BasePath string // например, "/api"; если пустой — роуты регистрируются на корне.
}

// NewRouter собирает http.Handler с chi и подключёнными middleware/роутами.
func NewRouter(svc *service.Service, opts Options) http.Handler {
	root := chi.NewRouter()

	// Middleware (внешний -> внутренний).
	root.Use(
		middleware.Recover(),            // безопасно ловим паники
		middleware.RequestID(),          // формируем/прокидываем X-Request-Id (до логирования!)
		middleware.Logging(opts.Logger), // кладём request-scoped логгер в контекст и логируем
	)
	if opts.Timeout > 0 {
		root.Use(middleware.Timeout(opts.Timeout)) // общий дедлайн запроса
	}

	h := handlers.New(svc)

	if opts.BasePath != "" {
		sub := chi.NewRouter()
		registerRoutes(sub, h, svc)
		root.Mount(opts.BasePath, sub)
		return root
	}

	registerRoutes(root, h, svc)
	return root
}

// registerRoutes — единая точка регистрации всех REST-эндпойнтов.
// Мутирующие и персональные роуты закрыты шлюзом авторизации.
func registerRoutes(r chi.Router, h *handlers.Handlers, auth middleware.Authorizer) {
	// auth
	r.Post("/auth/register", h.Register)
	r.Post("/auth/login", h.Login)
	r.Post("/auth/refresh", h.Refresh)

	// posts (публичное чтение)
	r.Get("/posts", h.ListPosts)
	r.Get("/posts/{id}", h.GetPost)
	r.Get("/posts/{post_id}/comments", h.ListComments)

	// likes (статус доступен и без авторизации)
	r.Get("/likes", h.LikeStatus)

	// users (публичный профиль и каталог)
	r.Get("/users", h.ListUsers)
	r.Get("/users/{id}", h.GetProfile)
	r.Get("/users/{id}/follows", h.FollowCounts)

	// защищённые роуты
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthRequired(auth))

		r.Post("/auth/logout", h.Logout)

		r.Post("/posts", h.CreatePost)
		r.Patch("/posts/{id}", h.UpdatePost)
		r.Delete("/posts/{id}", h.DeletePost)
		r.Get("/my/posts", h.MyPosts)
		r.Patch("/my/profile", h.UpdateProfile)
		r.Post("/my/password", h.ChangePassword)

		r.Post("/posts/{post_id}/comments", h.CreateComment)

		r.Post("/likes/toggle", h.ToggleLike)

		r.Post("/users/{id}/follow", h.Follow)
		r.Delete("/users/{id}/follow", h.Unfollow)
	})
}
