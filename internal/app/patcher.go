package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/dosmundos/admin-tools/internal/config"
	"github.com/dosmundos/admin-tools/internal/logger"
	"github.com/dosmundos/admin-tools/internal/patch"
)

// Patcher applies the configured patch set to configuration files.
type Patcher struct {
	cfg *config.Config
	set *patch.Set
	log logger.Logger
	out io.Writer
}

// NewPatcher builds a patcher runtime from config files.
func NewPatcher(cfg *config.Config, log logger.Logger, out io.Writer) (*Patcher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config must not be nil")
	}
	if log == nil {
		log = &logger.NopLogger{}
	}
	if out == nil {
		out = os.Stdout
	}

	set, err := patch.LoadSet(cfg.PatchesFile)
	if err != nil {
		return nil, fmt.Errorf("load patch set: %w", err)
	}
	ids := make([]string, 0)
	for _, p := range set.Enabled() {
		ids = append(ids, p.ID)
	}
	log.InfoObj("patch set loaded", "patches_meta", map[string]any{
		"file":    cfg.PatchesFile,
		"enabled": ids,
	})

	return &Patcher{cfg: cfg, set: set, log: log, out: out}, nil
}

// Run applies every enabled patch in file order and joins per-patch failures.
func (p *Patcher) Run(ctx context.Context) error {
	if p == nil || p.set == nil {
		return fmt.Errorf("patcher is not initialized")
	}

	var errs []error
	for _, pt := range p.set.Enabled() {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}

		outcome, err := patch.ApplyFile(pt)
		if err != nil {
			p.log.ErrorObj("patch failed", "patch_error", map[string]any{
				"patch_id": pt.ID,
				"error":    err.Error(),
			})
			errs = append(errs, fmt.Errorf("patch %s: %w", pt.ID, err))
			continue
		}
		if !outcome.Changed() {
			p.log.WarnObj("patch target text not found; file left unchanged", "patch_result", outcome)
			continue
		}

		p.log.InfoObj("patch applied", "patch_result", outcome)
		msg := pt.Message
		if msg == "" {
			msg = fmt.Sprintf("Applied %s to %s", pt.ID, pt.File)
		}
		fmt.Fprintln(p.out, msg)
	}
	return errors.Join(errs...)
}
