package registry

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"imageforge/internal/domain"
	"imageforge/internal/infra"
	"imageforge/internal/jobstore"
	"imageforge/internal/providers"
)

func newTestRegistry(t *testing.T, cfg *infra.Config) (*Registry, *jobstore.Store) {
	t.Helper()
	store := jobstore.New(time.Hour)
	return New(cfg, store, zerolog.Nop(), nil, providers.Options{Pace: time.Millisecond}), store
}

func TestOnlyLocalWithoutCredentials(t *testing.T) {
	r, _ := newTestRegistry(t, &infra.Config{AppEnv: "development"})

	models := r.AvailableModels()
	if len(models) != 1 || models[0].ID != providers.ModelLocal {
		t.Fatalf("models = %+v, want only %s", models, providers.ModelLocal)
	}
	if r.IsModelAvailable(providers.ModelGemini) {
		t.Error("gemini available without an api key")
	}
}

func TestCredentialsGateRegistration(t *testing.T) {
	r, _ := newTestRegistry(t, &infra.Config{
		AppEnv:       "development",
		GeminiAPIKey: "gk",
		BananaAPIKey: "bk",
	})

	models := r.AvailableModels()
	if len(models) != 3 {
		t.Fatalf("got %d models, want 3", len(models))
	}
	// Sorted by id.
	wantOrder := []string{providers.ModelBanana, providers.ModelGemini, providers.ModelLocal}
	for i, want := range wantOrder {
		if models[i].ID != want {
			t.Errorf("models[%d] = %s, want %s", i, models[i].ID, want)
		}
	}
}

func TestModeRoutingWithAllProviders(t *testing.T) {
	r, _ := newTestRegistry(t, &infra.Config{
		AppEnv:       "development",
		GeminiAPIKey: "gk",
		BananaAPIKey: "bk",
	})

	tests := []struct {
		mode string
		want string
	}{
		{"add-girlfriend", providers.ModelGemini},
		{"studio-portrait", providers.ModelBanana},
		{"cartoonize", providers.ModelGemini},
		{"unmapped-mode", providers.ModelLocal}, // development default
	}
	for _, tt := range tests {
		t.Run(tt.mode, func(t *testing.T) {
			adapter, modelID := r.AdapterForMode(tt.mode)
			if modelID != tt.want {
				t.Errorf("model = %s, want %s", modelID, tt.want)
			}
			if adapter == nil {
				t.Error("nil adapter")
			}
		})
	}
}

func TestProductionDefaultsToGemini(t *testing.T) {
	r, _ := newTestRegistry(t, &infra.Config{AppEnv: "production", GeminiAPIKey: "gk"})

	_, modelID := r.AdapterForMode("unmapped-mode")
	if modelID != providers.ModelGemini {
		t.Errorf("model = %s, want %s", modelID, providers.ModelGemini)
	}
}

func TestMissingCredentialFallsBackToLocal(t *testing.T) {
	// studio-portrait maps to banana, which is not registered here.
	r, store := newTestRegistry(t, &infra.Config{AppEnv: "development"})

	adapter, modelID := r.AdapterForMode("studio-portrait")
	if modelID != providers.ModelLocal {
		t.Fatalf("model = %s, want %s fallback", modelID, providers.ModelLocal)
	}

	// The fallback adapter must actually serve requests.
	job, err := adapter.Generate(context.Background(), domain.GenerationParams{Prompt: "a cat", Mode: "studio-portrait"})
	if err != nil {
		t.Fatalf("generate via fallback: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		snapshot, err := store.Get(job.JobID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if snapshot.Status == domain.JobStatusCompleted {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("fallback job never completed")
}

func TestAdapterForModel(t *testing.T) {
	r, _ := newTestRegistry(t, &infra.Config{AppEnv: "development", GeminiAPIKey: "gk"})

	if _, ok := r.AdapterForModel(providers.ModelGemini); !ok {
		t.Error("gemini adapter missing despite api key")
	}
	if _, ok := r.AdapterForModel(providers.ModelBanana); ok {
		t.Error("banana adapter present without api key")
	}
}

func TestModelEntryMetadata(t *testing.T) {
	r, _ := newTestRegistry(t, &infra.Config{AppEnv: "development", GeminiAPIKey: "gk"})

	entry, ok := r.Model(providers.ModelGemini)
	if !ok {
		t.Fatal("gemini entry missing")
	}
	if entry.Provider != "google" {
		t.Errorf("provider = %s, want google", entry.Provider)
	}
	if entry.Pricing == nil || entry.Pricing.Currency != "USD" {
		t.Errorf("pricing = %+v", entry.Pricing)
	}
	if !entry.Capabilities.TextToImage {
		t.Error("gemini should support text to image")
	}
}
