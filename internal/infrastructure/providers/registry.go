package providers

import (
	"github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/pkg/config"
)

// Registry maps provider names to implementations. It is populated once at
// startup and read-only thereafter, so lookups need no locking.
type Registry struct {
	providers   map[string]providers.AdProvider
	defaultName string
}

// NewRegistry builds the provider registry from configuration.
func NewRegistry(logger *logging.ChanneledLogger) *Registry {
	var mock *MockAdSenseManager
	if config.MockAdsMode {
		mock = NewMockAdSenseManager(config.MockAdsScenario, logger)
	}

	registry := &Registry{
		providers: map[string]providers.AdProvider{
			"google":    NewGoogleProvider(config.AdSenseClientID, config.AdSenseSlotID, mock, logger),
			"affiliate": NewAffiliateProvider(config.AffiliateAPIKey, config.AffiliateBaseURL),
			"minigame":  NewMinigameProvider(),
		},
		defaultName: config.DefaultProvider,
	}

	if _, ok := registry.providers[registry.defaultName]; !ok {
		logger.Providers().Warn("Default provider not registered, falling back to google",
			"configured", registry.defaultName)
		registry.defaultName = "google"
	}

	return registry
}

// Get returns the named provider.
func (r *Registry) Get(name string) (providers.AdProvider, bool) {
	p, ok := r.providers[name]
	return p, ok
}

// Default returns the fallback provider used for unknown names.
func (r *Registry) Default() providers.AdProvider {
	return r.providers[r.defaultName]
}

// Names returns the registered provider names.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	return names
}
