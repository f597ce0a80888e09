// Package store persists run history for the CLI and HTTP server. The
// evaluation core itself is stateless; persistence is strictly a caller
// concern layered on top of it.
package store

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Star2578/bap-test/internal/config"
	"github.com/Star2578/bap-test/runner"
)

const DefaultSQLitePath = "data/bap-test.db"

// RunRecord stores one evaluation run and its four-field result.
type RunRecord struct {
	ID            string
	CreatedAt     time.Time
	Provider      string
	Model         string
	CorpusVersion string
	Result        runner.EvaluationResult
	Details       []runner.PromptDetail
}

// Filter narrows run listings.
type Filter struct {
	Provider string
	Since    time.Time
	Limit    int
}

// Store defines persistence for evaluation runs.
type Store interface {
	SaveRun(ctx context.Context, rec *RunRecord) error
	GetRun(ctx context.Context, id string) (*RunRecord, error)
	ListRuns(ctx context.Context, filter Filter) ([]*RunRecord, error)
	Close() error
}

// Open builds a Store from storage configuration.
func Open(cfg *config.Config) (Store, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store: missing config")
	}

	storageType := strings.ToLower(strings.TrimSpace(cfg.Storage.Type))
	if storageType == "" {
		storageType = "sqlite"
	}

	switch storageType {
	case "sqlite":
		path := strings.TrimSpace(cfg.Storage.Path)
		if path == "" {
			path = DefaultSQLitePath
		}
		return NewSQLiteStore(path)
	case "memory":
		return NewSQLiteStore(":memory:")
	default:
		return nil, fmt.Errorf("store: unsupported type %q", storageType)
	}
}
