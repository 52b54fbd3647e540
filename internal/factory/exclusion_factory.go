package factory

import (
	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/exclusion"
	"go.uber.org/zap"
)

// ExclusionFactory creates sender exclusion checkers
type ExclusionFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewExclusionFactory creates a new exclusion factory
func NewExclusionFactory(cfg *config.Config, logger *zap.Logger) *ExclusionFactory {
	return &ExclusionFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateChecker merges exclusion.patterns, exclusion.rules_file and any
// extra rules or rule files given on the command line.
func (f *ExclusionFactory) CreateChecker(extraRules []string, extraFiles ...string) (*exclusion.Checker, error) {
	rules := append([]string{}, f.cfg.GetStringSlice("exclusion.patterns")...)
	rules = append(rules, extraRules...)

	files := extraFiles
	if path := f.cfg.GetString("exclusion.rules_file"); path != "" {
		files = append([]string{path}, files...)
	}
	for _, path := range files {
		if path == "" {
			continue
		}
		loaded, err := exclusion.LoadRules(path)
		if err != nil {
			return nil, err
		}
		f.logger.Debug("Loaded exclusion rules", zap.String("path", path), zap.Int("rules", len(loaded)))
		rules = append(rules, loaded...)
	}

	return exclusion.NewChecker(rules, f.logger), nil
}
