// Package api exposes the evaluation harness over HTTP: trigger runs,
// inspect the corpus, and browse run history.
package api

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/Star2578/bap-test/internal/app"
	"github.com/Star2578/bap-test/internal/config"
	"github.com/Star2578/bap-test/internal/store"
	"github.com/Star2578/bap-test/model"
)

type Server struct {
	router *gin.Engine
	config *config.Config
	store  store.Store

	// resolveModel is swappable so tests can inject a stub handle.
	resolveModel func(provider string) (model.Model, error)
}

func NewServer(cfg *config.Config, st store.Store) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("api: nil config")
	}

	r := gin.New()
	s := &Server{
		router: r,
		config: cfg,
		store:  st,
		resolveModel: func(provider string) (model.Model, error) {
			return app.ResolveModel(cfg, provider)
		},
	}
	s.registerMiddleware()
	if err := s.registerRoutes(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *Server) Run(addr string) error {
	if s == nil || s.router == nil {
		return errors.New("api: nil server")
	}
	addr = strings.TrimSpace(addr)
	if addr == "" {
		addr = ":8080"
	}
	return s.router.Run(addr)
}

func (s *Server) registerRoutes() error {
	if s == nil || s.router == nil {
		return nil
	}

	api := s.router.Group("/api")
	if mw, err := apiKeyMiddlewareFromEnv(); err != nil {
		return err
	} else if mw != nil {
		api.Use(mw)
	}

	api.GET("/health", s.handleHealth)
	api.GET("/corpus", s.handleGetCorpus)
	api.POST("/evaluate", s.handleEvaluate)
	api.GET("/runs", s.handleListRuns)
	api.GET("/runs/:id", s.handleGetRun)

	return nil
}
