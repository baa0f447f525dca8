package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"rosterboard/internal/delivery"
	"rosterboard/internal/httpapi/handlers"
	"rosterboard/internal/httpkit"
	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/pkg/middleware"
	"rosterboard/internal/ports"
	"rosterboard/internal/render"
)

type Deps struct {
	Pool       *pgxpool.Pool
	RDB        *redis.Client
	Renderer   *render.Orchestrator
	Dispatcher *delivery.Dispatcher
	Channel    ports.Channel // nil on non-leader processes
	Log        *logger.Logger

	CORSOrigins []string
}

func NewRouter(d Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recovery(d.Log))
	r.Use(middleware.Logging(d.Log))
	r.Use(middleware.Timeout(90 * time.Second))

	r.Use(httpkit.CORS(httpkit.CORSOptions{
		AllowedOrigins:   d.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAgeSeconds:    600,
	}))

	h := handlers.New(handlers.Deps{
		Pool:       d.Pool,
		RDB:        d.RDB,
		Renderer:   d.Renderer,
		Dispatcher: d.Dispatcher,
		Channel:    d.Channel,
		Log:        d.Log,
	})

	r.Get("/health", h.Health)

	r.Post("/renders", h.PostRender)

	return r
}
