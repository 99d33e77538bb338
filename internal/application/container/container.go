// Package container provides dependency injection for all singleton services
package container

import (
	"github.com/classguru/adserve-go/internal/application/services"
	domainproviders "github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/classguru/adserve-go/internal/infrastructure/abuse"
	"github.com/classguru/adserve-go/internal/infrastructure/credits"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/logging"
	"github.com/classguru/adserve-go/internal/infrastructure/observability/metrics"
	persistence "github.com/classguru/adserve-go/internal/infrastructure/persistence/ads"
	"github.com/classguru/adserve-go/internal/infrastructure/persistence/database"
	"github.com/classguru/adserve-go/internal/infrastructure/providers"
	"github.com/classguru/adserve-go/pkg/config"
)

// Container holds all singleton services and infrastructure dependencies
type Container struct {
	// Orchestration services (stateless singletons)
	AdRequestService   *services.AdRequestService
	ClickService       *services.ClickService
	MetricsService     *services.MetricsService
	RevenueSyncService *services.RevenueSyncService

	// Infrastructure
	Logger        *logging.ChanneledLogger
	Metrics       *metrics.Metrics
	DB            *database.DB
	Guard         *abuse.Guard
	Codec         *abuse.ViewabilityCodec
	Registry      *providers.Registry
	Selector      *providers.Selector
	CreditsClient *credits.Client
}

// NewContainer creates and wires all singleton services
func NewContainer(db *database.DB, logger *logging.ChanneledLogger) *Container {
	m := metrics.New()

	impressionRepo := persistence.NewSQLImpressionRepository(db, logger)
	clickRepo := persistence.NewSQLClickRepository(db, logger)
	revenueRepo := persistence.NewSQLRevenueRepository(db, logger)

	codec := abuse.NewViewabilityCodec(config.JWTSecret, config.MinDisplayTime)
	guard := abuse.NewGuard(config.ClickDedupeWindow)

	registry := providers.NewRegistry(logger)
	selector := providers.NewSelector(registry, config.ProviderList, config.ProviderWeights)

	creditsClient := credits.NewClient(config.CreditsBaseURL, config.CreditsTimeout, logger)

	return &Container{
		AdRequestService: services.NewAdRequestService(
			selector, creditsClient, codec, impressionRepo, m, logger),
		ClickService: services.NewClickService(
			impressionRepo, clickRepo, guard, codec, registry, creditsClient, m, logger),
		MetricsService: services.NewMetricsService(impressionRepo, clickRepo, logger),
		RevenueSyncService: services.NewRevenueSyncService(
			registryProviders(registry), revenueRepo, config.RevenueSyncLookback, m, logger),

		Logger:        logger,
		Metrics:       m,
		DB:            db,
		Guard:         guard,
		Codec:         codec,
		Registry:      registry,
		Selector:      selector,
		CreditsClient: creditsClient,
	}
}

// GoogleProvider returns the registered google provider for config and
// health endpoints.
func (c *Container) GoogleProvider() *providers.GoogleProvider {
	p, _ := c.Registry.Get("google")
	return p.(*providers.GoogleProvider)
}

func registryProviders(registry *providers.Registry) []domainproviders.AdProvider {
	var list []domainproviders.AdProvider
	for _, name := range registry.Names() {
		if p, ok := registry.Get(name); ok {
			list = append(list, p)
		}
	}
	return list
}
