package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/vncsmyrnk/premios/internal/log"
	"github.com/vncsmyrnk/premios/internal/metrics"
)

type RouterConfig struct {
	Polls     *PollHandler
	Votes     *VoteHandler
	Questions *QuestionHandler
	Admin     *AdminHandler
	Auth      *AuthHandler
	Logger    zerolog.Logger
	// VoteRateLimit is the number of votes per minute per client IP. Zero
	// disables the limiter.
	VoteRateLimit int
}

func NewHandler(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(log.RequestLogger(cfg.Logger))
	r.Use(middleware.Recoverer)
	r.Use(middleware.StripSlashes)
	r.Use(metrics.Middleware)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/polls/", http.StatusFound)
	})
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("ok"))
	})
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/polls", func(r chi.Router) {
		r.Get("/", cfg.Polls.Index)
		r.Get("/{id}", cfg.Polls.Detail)
		r.Get("/{id}/results", cfg.Polls.Results)
		r.With(voteLimiter(cfg.VoteRateLimit)).Post("/{id}/vote", cfg.Votes.Vote)
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/questions", cfg.Questions.ListQuestions)
		r.Get("/questions/{id}", cfg.Questions.GetQuestion)
		r.Get("/questions/{id}/results", cfg.Questions.GetResults)
	})

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(cfg.Auth.RequireAdmin)

		r.Route("/questions", func(r chi.Router) {
			r.Post("/", cfg.Admin.CreateQuestion)
			r.Get("/", cfg.Admin.ListQuestions)
			r.Get("/{id}", cfg.Admin.GetQuestion)
			r.Delete("/{id}", cfg.Admin.DeleteQuestion)
			r.Post("/{id}/choices", cfg.Admin.AddChoice)
		})
	})

	return r
}

func voteLimiter(perMinute int) func(http.Handler) http.Handler {
	if perMinute <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	return httprate.Limit(
		perMinute,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Retry-After", "60")
			http.Error(w, "too many votes, try again later", http.StatusTooManyRequests)
		}),
	)
}
