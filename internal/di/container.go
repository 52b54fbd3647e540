package di

import (
	"go.uber.org/dig"

	"github.com/mikey/job-tracker/internal/config"
	"github.com/mikey/job-tracker/internal/core"
	"github.com/mikey/job-tracker/internal/exclusion"
	"github.com/mikey/job-tracker/internal/factory"
	"github.com/mikey/job-tracker/internal/logging"
	"github.com/mikey/job-tracker/internal/ports"
)

// BuildContainer creates the dependency injection container for the intake daemon
func BuildContainer(configPath string) (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(func() (*config.Config, error) {
		return config.New(configPath)
	}); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewExclusionFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewReceiverFactory); err != nil {
		return nil, err
	}

	// Register exclusion checker
	if err := container.Provide(func(f *factory.ExclusionFactory) (*exclusion.Checker, error) {
		return f.CreateChecker(nil)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(c *exclusion.Checker) core.SenderFilter {
		return c
	}); err != nil {
		return nil, err
	}

	// Register receiver
	if err := container.Provide(func(f *factory.ReceiverFactory, filter core.SenderFilter) (ports.Receiver, error) {
		return f.CreateReceiver(filter)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
