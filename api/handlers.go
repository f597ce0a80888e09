package api

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Star2578/bap-test/aggregate"
	"github.com/Star2578/bap-test/corpus"
	"github.com/Star2578/bap-test/internal/app"
	"github.com/Star2578/bap-test/internal/store"
	"github.com/Star2578/bap-test/model"
	"github.com/Star2578/bap-test/runner"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) handleGetCorpus(c *gin.Context) {
	crp, err := app.LoadCorpus(s.config, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	counts := make(map[corpus.Metric]int, len(corpus.Metrics))
	for _, m := range corpus.Metrics {
		counts[m] = len(crp.Partition(m))
	}
	c.JSON(http.StatusOK, gin.H{
		"version": crp.Version(),
		"total":   crp.Len(),
		"counts":  counts,
		"prompts": crp.Prompts(),
	})
}

type evaluateRequest struct {
	Provider string             `json:"provider"`
	Weights  map[string]float64 `json:"weights,omitempty"`
	Save     bool               `json:"save,omitempty"`
}

type evaluateResponse struct {
	RunID  string                  `json:"run_id,omitempty"`
	Result runner.EvaluationResult `json:"result"`
	Detail []runner.PromptDetail   `json:"details"`
}

func (s *Server) handleEvaluate(c *gin.Context) {
	var req evaluateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body: " + err.Error()})
		return
	}

	m, err := s.resolveModel(req.Provider)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	weights := app.WeightsFromConfig(s.config)
	if len(req.Weights) > 0 {
		weights = make(aggregate.Weights, len(req.Weights))
		for name, w := range req.Weights {
			weights[corpus.Metric(name)] = w
		}
	}
	if err := weights.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	crp, err := app.LoadCorpus(s.config, "")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	r, err := runner.New(m, crp, runner.Config{
		MaxRetries: s.config.Evaluation.MaxRetries,
		Timeout:    s.config.Evaluation.Timeout,
		Weights:    weights,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	result, err := r.Run(c.Request.Context())
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, runner.ErrCancelled) {
			status = http.StatusRequestTimeout
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	resp := evaluateResponse{
		Result: *result,
		Detail: r.Details(),
	}

	if req.Save && s.store != nil {
		rec := &store.RunRecord{
			ID:            uuid.NewString(),
			CreatedAt:     time.Now().UTC(),
			Provider:      m.Name(),
			Model:         model.ID(m),
			CorpusVersion: crp.Version(),
			Result:        *result,
			Details:       r.Details(),
		}
		if err := s.store.SaveRun(c.Request.Context(), rec); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		resp.RunID = rec.ID
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleListRuns(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history storage not configured"})
		return
	}

	filter := store.Filter{
		Provider: strings.TrimSpace(c.Query("provider")),
	}
	if v := strings.TrimSpace(c.Query("limit")); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		filter.Limit = n
	}
	runs, err := s.store.ListRuns(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"runs": runs})
}

func (s *Server) handleGetRun(c *gin.Context) {
	if s.store == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "run history storage not configured"})
		return
	}

	rec, err := s.store.GetRun(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			c.JSON(http.StatusNotFound, gin.H{"error": "run not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}
