package processor

import (
	"github.com/nguyentantai21042004/frame-align/internal/config"
	"github.com/nguyentantai21042004/frame-align/internal/logger"
	"github.com/nguyentantai21042004/frame-align/internal/store"
	"github.com/nguyentantai21042004/frame-align/pkg/executor"
)

type implProcessor struct {
	cfg      *config.Config
	executor executor.Executor
	logger   logger.Logger
	catalog  *store.Store
}

// New creates a new Processor instance. The catalog is optional; when
// nil, runs are simply not recorded.
func New(cfg *config.Config, exec executor.Executor, log logger.Logger, catalog *store.Store) Processor {
	return &implProcessor{
		cfg:      cfg,
		executor: exec,
		logger:   log,
		catalog:  catalog,
	}
}
