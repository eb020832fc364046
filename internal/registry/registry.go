// Package registry owns the set of configured model adapters and routes a
// generation mode to the adapter that should serve it.
package registry

import (
	"sort"

	"github.com/rs/zerolog"

	"imageforge/internal/infra"
	"imageforge/internal/jobstore"
	"imageforge/internal/providers"
)

// Capabilities describes what a model can do, surfaced verbatim by the
// models endpoint.
type Capabilities struct {
	TextToImage      bool     `json:"textToImage"`
	ImageToImage     bool     `json:"imageToImage"`
	Inpainting       bool     `json:"inpainting"`
	MaxResolution    string   `json:"maxResolution"`
	SupportedFormats []string `json:"supportedFormats"`
}

// Pricing is optional per-model cost metadata.
type Pricing struct {
	CostPerImage float64 `json:"costPerImage"`
	Currency     string  `json:"currency"`
}

// Entry is the static metadata for one registered model. Constructed once at
// process start and immutable thereafter; the paired adapter is held
// separately so entries marshal without it.
type Entry struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Provider     string       `json:"provider"`
	Capabilities Capabilities `json:"capabilities"`
	Pricing      *Pricing     `json:"pricing,omitempty"`
}

// Registry maps model ids to entries and adapter instances. The local
// adapter is always present, so mode resolution can never come up empty.
type Registry struct {
	log          zerolog.Logger
	entries      map[string]Entry
	adapters     map[string]providers.Adapter
	defaultModel string
}

// New populates the registry from configuration: the local adapter
// unconditionally, the external providers only when their credentials are
// present. The default model for unmapped modes follows the environment
// flag.
func New(cfg *infra.Config, store *jobstore.Store, log zerolog.Logger, rec providers.Recorder, opts providers.Options) *Registry {
	r := &Registry{
		log:          log,
		entries:      make(map[string]Entry),
		adapters:     make(map[string]providers.Adapter),
		defaultModel: providers.ModelLocal,
	}
	if cfg.Production() {
		r.defaultModel = providers.ModelGemini
	}

	r.register(Entry{
		ID:       providers.ModelLocal,
		Name:     "Local Mock Generator",
		Provider: "local",
		Capabilities: Capabilities{
			TextToImage:      true,
			ImageToImage:     true,
			Inpainting:       true,
			MaxResolution:    "1024x1024",
			SupportedFormats: []string{"png", "jpg", "webp"},
		},
	}, providers.NewLocal(store, log, rec, opts))

	if cfg.GeminiAPIKey != "" {
		r.register(Entry{
			ID:       providers.ModelGemini,
			Name:     "Gemini Pro Vision",
			Provider: "google",
			Capabilities: Capabilities{
				TextToImage:      true,
				ImageToImage:     true,
				Inpainting:       true,
				MaxResolution:    "1536x1536",
				SupportedFormats: []string{"png", "jpg", "webp"},
			},
			Pricing: &Pricing{CostPerImage: 0.05, Currency: "USD"},
		}, providers.NewGemini(cfg.GeminiAPIKey, store, log, rec, opts))
	}

	if cfg.BananaAPIKey != "" {
		r.register(Entry{
			ID:       providers.ModelBanana,
			Name:     "Stable Diffusion XL",
			Provider: "banana",
			Capabilities: Capabilities{
				TextToImage:      true,
				ImageToImage:     true,
				Inpainting:       true,
				MaxResolution:    "1024x1024",
				SupportedFormats: []string{"png", "jpg"},
			},
			Pricing: &Pricing{CostPerImage: 0.02, Currency: "USD"},
		}, providers.NewBanana(cfg.BananaAPIKey, cfg.BananaModelKey, store, log, rec, opts))
	}

	return r
}

func (r *Registry) register(entry Entry, adapter providers.Adapter) {
	r.entries[entry.ID] = entry
	r.adapters[entry.ID] = adapter
}

// modelForMode is the fixed mode→model table. Unmapped modes fall through to
// the environment default.
func modelForMode(mode string) string {
	switch mode {
	case "add-girlfriend":
		return providers.ModelGemini // better for people generation
	case "studio-portrait":
		return providers.ModelBanana // good for portraits
	case "cartoonize":
		return providers.ModelGemini // better for style transfer
	default:
		return ""
	}
}

// AdapterForMode resolves the adapter serving a generation mode and the
// model id it was resolved to. A resolved model that is not actually
// registered (missing credentials) is substituted with the guaranteed local
// fallback rather than failing the request.
func (r *Registry) AdapterForMode(mode string) (providers.Adapter, string) {
	modelID := modelForMode(mode)
	if modelID == "" {
		modelID = r.defaultModel
	}

	adapter, ok := r.adapters[modelID]
	if !ok {
		r.log.Warn().Str("model", modelID).Str("mode", mode).Msg("registry: model not registered, falling back to local")
		modelID = providers.ModelLocal
		adapter = r.adapters[modelID]
	}
	return adapter, modelID
}

// AdapterForModel returns the adapter registered under a model id, if any.
func (r *Registry) AdapterForModel(modelID string) (providers.Adapter, bool) {
	adapter, ok := r.adapters[modelID]
	return adapter, ok
}

// AvailableModels returns all registered entries, ordered by id for a stable
// listing.
func (r *Registry) AvailableModels() []Entry {
	out := make([]Entry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, entry)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Model returns the entry for a model id.
func (r *Registry) Model(modelID string) (Entry, bool) {
	entry, ok := r.entries[modelID]
	return entry, ok
}

// IsModelAvailable reports whether the model id is registered.
func (r *Registry) IsModelAvailable(modelID string) bool {
	_, ok := r.entries[modelID]
	return ok
}
