package handlers

import (
	"clipcap/internal/pkg/logger"
	"clipcap/internal/ports"
	"clipcap/internal/queue"
	"clipcap/internal/worker/renderer"
)

type Deps struct {
	Store     ports.JobStore
	Objects   ports.ObjectStore
	Publisher queue.Publisher
	Renderer  renderer.Client
	Log       *logger.Logger
}

type Handler struct {
	store     ports.JobStore
	objects   ports.ObjectStore
	publisher queue.Publisher
	renderer  renderer.Client
	log       *logger.Logger
}

func New(d Deps) *Handler {
	log := d.Log
	if log == nil {
		log = logger.NewDefault()
	}
	return &Handler{
		store:     d.Store,
		objects:   d.Objects,
		publisher: d.Publisher,
		renderer:  d.Renderer,
		log:       log.WithComponent("httpapi"),
	}
}
