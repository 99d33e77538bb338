package providers

import (
	"context"
	"testing"

	"github.com/classguru/adserve-go/internal/domain/ads"
	domainproviders "github.com/classguru/adserve-go/internal/domain/providers"
	"github.com/stretchr/testify/require"
)

type stubProvider struct {
	name string
}

func (p *stubProvider) Name() string { return p.name }

func (p *stubProvider) RequestAd(_ context.Context, _ *ads.RequestContext) (*ads.AdObject, error) {
	return &ads.AdObject{Provider: p.name}, nil
}

func (p *stubProvider) OnClick(_ context.Context, _ *ads.ClickContext) (*ads.ClickResult, error) {
	return &ads.ClickResult{Success: true}, nil
}

func stubRegistry(names ...string) *Registry {
	reg := &Registry{
		providers:   make(map[string]domainproviders.AdProvider),
		defaultName: names[0],
	}
	for _, name := range names {
		reg.providers[name] = &stubProvider{name: name}
	}
	return reg
}

func TestSelectorWeightedProportions(t *testing.T) {
	reg := stubRegistry("google", "affiliate")
	sel := NewSelector(reg, []string{"google", "affiliate"}, map[string]int{
		"google":    3,
		"affiliate": 1,
	})

	counts := make(map[string]int)
	for i := 0; i < 4000; i++ {
		counts[sel.Select(&ads.RequestContext{}).Name()]++
	}

	// Expect roughly 3:1; allow generous slack for randomness.
	require.Greater(t, counts["google"], 2700)
	require.Less(t, counts["google"], 3300)
	require.Greater(t, counts["affiliate"], 700)
}

func TestSelectorZeroWeightNeverSelected(t *testing.T) {
	reg := stubRegistry("google", "affiliate", "minigame")
	sel := NewSelector(reg, []string{"google", "affiliate", "minigame"}, map[string]int{
		"google":    1,
		"affiliate": 0,
		"minigame":  1,
	})

	for i := 0; i < 1000; i++ {
		require.NotEqual(t, "affiliate", sel.Select(&ads.RequestContext{}).Name())
	}
}

func TestSelectorWeightedBoundary(t *testing.T) {
	reg := stubRegistry("google", "affiliate")
	sel := NewSelector(reg, []string{"google", "affiliate"}, map[string]int{
		"google":    1,
		"affiliate": 1,
	})

	// r = 0 selects the first configured provider deterministically.
	sel.randFloat = func() float64 { return 0 }
	require.Equal(t, "google", sel.Select(&ads.RequestContext{}).Name())

	// A draw past the first provider's cumulative weight lands on the second.
	sel.randFloat = func() float64 { return 0.75 } // r = 1.5 of total 2
	require.Equal(t, "affiliate", sel.Select(&ads.RequestContext{}).Name())
}

func TestSelectorRoundRobinWithoutFullWeights(t *testing.T) {
	reg := stubRegistry("google", "affiliate", "minigame")

	// One provider lacks a weight, so weighted selection is off entirely.
	sel := NewSelector(reg, []string{"google", "affiliate", "minigame"}, map[string]int{
		"google":    5,
		"affiliate": 5,
	})

	var got []string
	for i := 0; i < 6; i++ {
		got = append(got, sel.Select(&ads.RequestContext{}).Name())
	}
	require.Equal(t, []string{"google", "affiliate", "minigame", "google", "affiliate", "minigame"}, got)
}

func TestSelectorRoundRobinNoWeights(t *testing.T) {
	reg := stubRegistry("google", "affiliate")
	sel := NewSelector(reg, []string{"google", "affiliate"}, nil)

	require.Equal(t, "google", sel.Select(&ads.RequestContext{}).Name())
	require.Equal(t, "affiliate", sel.Select(&ads.RequestContext{}).Name())
	require.Equal(t, "google", sel.Select(&ads.RequestContext{}).Name())
}

func TestSelectorUnknownNameFallsBackToDefault(t *testing.T) {
	reg := stubRegistry("google")
	sel := NewSelector(reg, []string{"google", "doubleverify"}, nil)

	require.Equal(t, "google", sel.Select(&ads.RequestContext{}).Name())
	// Second pick cycles to the unregistered name and resolves to default.
	require.Equal(t, "google", sel.Select(&ads.RequestContext{}).Name())
}

func TestSelectorEmptyListUsesDefault(t *testing.T) {
	reg := stubRegistry("google", "affiliate")
	sel := NewSelector(reg, nil, nil)

	for i := 0; i < 5; i++ {
		require.Equal(t, "google", sel.Select(&ads.RequestContext{}).Name())
	}
}
