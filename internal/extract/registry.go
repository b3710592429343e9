package extract

import (
	"context"
	"log/slog"
	"os/exec"

	"github.com/jankiewiet1/circav2-migration/constants"
)

// noopTableExtractor stands in for an optional tool that is not installed,
// so call sites never branch on availability.
type noopTableExtractor struct {
	name string
}

func (n noopTableExtractor) Name() string                              { return n.name }
func (n noopTableExtractor) Tables(context.Context, string) []RawTable { return nil }

// NewTableRegistry builds the set of alternate table extractors available on
// this host. The set is decided once at startup: a missing binary registers
// as a no-op implementation returning empty results.
func NewTableRegistry(cfg Config, runner Runner, logger *slog.Logger) []TableExtractor {
	cfg.applyDefaults()
	if runner == nil {
		runner = ExecRunner{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	registry := make([]TableExtractor, 0, 2)

	if _, err := exec.LookPath(cfg.Tabula); err == nil {
		registry = append(registry, &tabulaExtractor{cfg: cfg, runner: runner, logger: logger})
	} else {
		logger.Warn("extract.registry.unavailable", "tool", cfg.Tabula)
		registry = append(registry, noopTableExtractor{name: constants.SourceTabula})
	}

	if _, err := exec.LookPath(cfg.Camelot); err == nil {
		registry = append(registry, &camelotExtractor{cfg: cfg, runner: runner, logger: logger})
	} else {
		logger.Warn("extract.registry.unavailable", "tool", cfg.Camelot)
		registry = append(registry, noopTableExtractor{name: constants.SourceCamelot})
	}

	return registry
}
