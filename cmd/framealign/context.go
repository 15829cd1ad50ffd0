package main

import (
	"strings"
	"sync"

	"github.com/nguyentantai21042004/frame-align/internal/config"
	"github.com/nguyentantai21042004/frame-align/internal/logger"
)

// commandContext lazily loads configuration so commands that never need
// it (convert in particular) run without a config file present.
type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := "config.yaml"
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.Load(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() logger.Logger {
	level := "info"
	if cfg, err := c.ensureConfig(); err == nil {
		level = cfg.Logging.Level
	}
	return logger.New(level)
}
