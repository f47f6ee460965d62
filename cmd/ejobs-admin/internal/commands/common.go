package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/justsurfingit/ejobs/internal/config"
	"github.com/justsurfingit/ejobs/internal/database"
	"github.com/justsurfingit/ejobs/internal/logger"
)

// AdminCommandHandler holds what every subcommand needs. It connects lazily
// so that --help works without a database.
type AdminCommandHandler struct {
	cfg *config.Config
	db  *gorm.DB
	log *slog.Logger
}

// open loads configuration and connects to the database. Logs go to the
// command's stderr so stdout carries only command output.
func (h *AdminCommandHandler) open(cmd *cobra.Command) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	log, err := logger.NewWriter(&cfg.Logger, cmd.ErrOrStderr())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	db, err := database.Connect(cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	h.cfg, h.db, h.log = cfg, db, log
	return nil
}

func (h *AdminCommandHandler) close() {
	if h.db == nil {
		return
	}
	if err := database.Close(h.db); err != nil {
		h.log.Warn("failed to close database", "error", err)
	}
	h.db = nil
}

// run wraps a subcommand body with open and close.
func (h *AdminCommandHandler) run(fn func(cmd *cobra.Command, args []string) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		if err := h.open(cmd); err != nil {
			return err
		}
		defer h.close()
		return fn(cmd, args)
	}
}
