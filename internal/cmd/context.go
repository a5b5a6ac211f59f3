package cmd

import (
	"context"

	"github.com/jmgilman/authgate/internal/adapter"
	"github.com/jmgilman/authgate/internal/auth"
	"github.com/jmgilman/authgate/internal/config"
	"github.com/jmgilman/authgate/internal/wrap"
)

type contextKey string

const (
	configKey       contextKey = "config"
	loaderKey       contextKey = "loader"
	registryKey     contextKey = "registry"
	orchestratorKey contextKey = "orchestrator"
	runnerKey       contextKey = "runner"
)

// WithConfig adds the config to the context.
func WithConfig(ctx context.Context, cfg *config.Config) context.Context {
	return context.WithValue(ctx, configKey, cfg)
}

// ConfigFromContext retrieves the config from context.
func ConfigFromContext(ctx context.Context) *config.Config {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok {
		return nil
	}
	return cfg
}

// WithLoader adds the config loader to the context.
func WithLoader(ctx context.Context, loader *config.Loader) context.Context {
	return context.WithValue(ctx, loaderKey, loader)
}

// LoaderFromContext retrieves the config loader from context.
func LoaderFromContext(ctx context.Context) *config.Loader {
	loader, ok := ctx.Value(loaderKey).(*config.Loader)
	if !ok {
		return nil
	}
	return loader
}

// WithRegistry adds the service registry to the context.
func WithRegistry(ctx context.Context, registry *adapter.Registry) context.Context {
	return context.WithValue(ctx, registryKey, registry)
}

// RegistryFromContext retrieves the service registry from context.
func RegistryFromContext(ctx context.Context) *adapter.Registry {
	registry, ok := ctx.Value(registryKey).(*adapter.Registry)
	if !ok {
		return nil
	}
	return registry
}

// WithOrchestrator adds the auth orchestrator to the context.
func WithOrchestrator(ctx context.Context, orch *auth.Orchestrator) context.Context {
	return context.WithValue(ctx, orchestratorKey, orch)
}

// OrchestratorFromContext retrieves the auth orchestrator from context.
func OrchestratorFromContext(ctx context.Context) *auth.Orchestrator {
	orch, ok := ctx.Value(orchestratorKey).(*auth.Orchestrator)
	if !ok {
		return nil
	}
	return orch
}

// WithRunner adds the command wrapper runner to the context.
func WithRunner(ctx context.Context, runner *wrap.Runner) context.Context {
	return context.WithValue(ctx, runnerKey, runner)
}

// RunnerFromContext retrieves the command wrapper runner from context.
func RunnerFromContext(ctx context.Context) *wrap.Runner {
	runner, ok := ctx.Value(runnerKey).(*wrap.Runner)
	if !ok {
		return nil
	}
	return runner
}
