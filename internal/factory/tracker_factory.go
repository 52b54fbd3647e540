package factory

import (
	"fmt"

	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"go.uber.org/zap"
)

// TrackerFactory creates the tracker pipeline
type TrackerFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewTrackerFactory creates a new tracker factory
func NewTrackerFactory(cfg *config.Config, logger *zap.Logger) *TrackerFactory {
	return &TrackerFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateTrackerService wires extractor, classifier and aggregator from configuration.
// A nil filter excludes nothing.
func (f *TrackerFactory) CreateTrackerService(filter core.SenderFilter) (*core.TrackerService, error) {
	trackerCfg := f.cfg.GetTracker()

	resolver, ok := core.ResolverFor(trackerCfg.MergePolicy)
	if !ok {
		return nil, fmt.Errorf("unsupported merge policy: %s", trackerCfg.MergePolicy)
	}

	sets, err := f.cfg.GetKeywordSets()
	if err != nil {
		return nil, err
	}

	return core.NewTrackerService(
		filter,
		core.NewExtractor(f.cfg.GetExtractor()),
		core.NewClassifier(sets),
		core.NewAggregator(resolver),
		core.RelevanceFilter{
			Enabled:  trackerCfg.RelevanceFilter,
			Keywords: trackerCfg.RelevanceKeywords,
		},
		f.logger,
	), nil
}
