package handlers

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"rosterboard/internal/delivery"
	"rosterboard/internal/pkg/logger"
	"rosterboard/internal/ports"
	"rosterboard/internal/render"
)

type Deps struct {
	Pool       *pgxpool.Pool
	RDB        *redis.Client
	Renderer   *render.Orchestrator
	Dispatcher *delivery.Dispatcher
	Channel    ports.Channel
	Log        *logger.Logger
}

type Handler struct {
	pool       *pgxpool.Pool
	rdb        *redis.Client
	renderer   *render.Orchestrator
	dispatcher *delivery.Dispatcher
	channel    ports.Channel
	log        *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		pool:       d.Pool,
		rdb:        d.RDB,
		renderer:   d.Renderer,
		dispatcher: d.Dispatcher,
		channel:    d.Channel,
		log:        log,
	}
}
