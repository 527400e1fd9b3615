package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/dosmundos/admin-tools/internal/config"
	"github.com/dosmundos/admin-tools/internal/episodes"
	"github.com/dosmundos/admin-tools/internal/logger"
	"github.com/dosmundos/admin-tools/internal/storage"
)

// Extractor runs a single episode extraction over the configured export and
// prints the report. The snapshot ledger only notes repeated runs.
type Extractor struct {
	cfg   *config.Config
	log   logger.Logger
	store storage.Store
	out   io.Writer
}

// NewExtractor builds an extractor runtime from config.
func NewExtractor(cfg *config.Config, log logger.Logger, out io.Writer) (*Extractor, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}

	storeOpts := storage.Options{SnapshotTTL: cfg.LedgerTTL}
	store, err := storage.NewStore(cfg.LedgerType, cfg.LedgerPath, storeOpts)
	if err != nil {
		log.WarnObj("ledger unavailable; continuing without it", "ledger_error", map[string]any{
			"type":  cfg.LedgerType,
			"path":  cfg.LedgerPath,
			"error": err.Error(),
		})
		store, _ = storage.NewStore("none", "", storeOpts)
	} else {
		log.DebugObj("ledger initialized", "ledger_config", map[string]any{
			"type":        cfg.LedgerType,
			"path":        cfg.LedgerPath,
			"ttl_seconds": int(cfg.LedgerTTL.Seconds()),
		})
	}

	return &Extractor{
		cfg:   cfg,
		log:   log,
		store: store,
		out:   out,
	}, nil
}

// Run reads the export, reduces it to one episode per slug and writes the report.
func (e *Extractor) Run(ctx context.Context) error {
	if e == nil || e.cfg == nil {
		return fmt.Errorf("extractor is not initialized")
	}
	defer e.closeStore()

	if err := ctx.Err(); err != nil {
		return err
	}

	start := time.Now()
	raw, err := os.ReadFile(e.cfg.ExportPath)
	if err != nil {
		return fmt.Errorf("read export: %w", err)
	}

	digest := storage.Digest(raw)
	if prev, seen, err := e.store.LookupSnapshot(digest); err != nil {
		e.log.WarnObj("ledger lookup failed", "error", err)
	} else if seen {
		e.log.WarnObj("export snapshot already processed", "snapshot", map[string]any{
			"path":              e.cfg.ExportPath,
			"digest":            digest,
			"previous_episodes": prev.Episodes,
			"expires_at":        prev.ExpiresAt.UTC(),
		})
	}

	res, err := episodes.Extract(string(raw))
	if err != nil {
		return fmt.Errorf("extract episodes: %w", err)
	}

	if err := episodes.WriteReport(e.out, res, e.cfg.OutputFormat); err != nil {
		return fmt.Errorf("write report: %w", err)
	}

	if err := e.store.MarkSnapshot(digest, res.Count()); err != nil {
		e.log.ErrorObj("ledger update failed", "error", err)
	}

	e.log.InfoObj("extraction completed", "extraction_meta", map[string]any{
		"path":         e.cfg.ExportPath,
		"bytes":        len(raw),
		"matched_rows": res.Matched(),
		"episodes":     res.Count(),
		"elapsed_ms":   time.Since(start).Milliseconds(),
	})
	return nil
}

// closeStore safely closes the ledger, logging any errors encountered.
func (e *Extractor) closeStore() {
	if e == nil || e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.log.ErrorObj("ledger close failed", "error", err)
	}
}
