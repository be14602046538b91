package pickup

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/sellwaste/sellwaste/internal/dataset"
	"github.com/sellwaste/sellwaste/internal/textgen"
	"github.com/sellwaste/sellwaste/pkg/seeded"
)

// DatasetSource is the slice of the dataset service the pipeline needs.
type DatasetSource interface {
	CompanySampler
	Load(ctx context.Context) (*dataset.Dataset, error)
	FilterByCityAndIndustry(ctx context.Context, city, industry string) ([]dataset.Company, error)
}

// FlagSource exposes the runtime flags the pipeline honors.
type FlagSource interface {
	IsTextGenerationDisabled(ctx context.Context) bool
	IsDatasetHydrationDisabled(ctx context.Context) bool
}

// DefaultStageTimeout bounds one advisory text-generation call. A call
// that exceeds it goes straight to the deterministic fallback.
const DefaultStageTimeout = 8 * time.Second

// ServiceConfig holds configuration for the pipeline service.
type ServiceConfig struct {
	// Dataset backs hydration and the advisory summaries. Optional;
	// without it every dataset-derived signal degrades gracefully.
	Dataset DatasetSource

	// TextGen produces advisory text. Optional; without it the
	// deterministic fallbacks are used.
	TextGen textgen.Provider

	// Flags gates text generation and dataset hydration at runtime.
	Flags FlagSource

	// Logger for pipeline operations.
	Logger zerolog.Logger

	// StageTimeout overrides DefaultStageTimeout.
	StageTimeout time.Duration

	// Now overrides the clock (used in tests).
	Now func() time.Time
}

// Service runs the decision pipeline. Each request is an independent
// computation: one seed, one RNG, no shared mutable state beyond the
// read-only dataset cache.
type Service struct {
	dataset      DatasetSource
	textGen      textgen.Provider
	flags        FlagSource
	logger       zerolog.Logger
	stageTimeout time.Duration
	now          func() time.Time
}

// NewService creates a new pipeline service.
func NewService(cfg ServiceConfig) *Service {
	stageTimeout := cfg.StageTimeout
	if stageTimeout == 0 {
		stageTimeout = DefaultStageTimeout
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Service{
		dataset:      cfg.Dataset,
		textGen:      cfg.TextGen,
		flags:        cfg.Flags,
		logger:       cfg.Logger,
		stageTimeout: stageTimeout,
		now:          now,
	}
}

// Run executes the pipeline: normalize, validate, layer1, layer2,
// optimization, final assembly. It returns *ValidationError when the
// normalized request fails structural validation; advisory-stage
// failures never surface, they only degrade message text.
func (s *Service) Run(ctx context.Context, raw Request) (*Response, error) {
	requestID := newRequestID(s.now())
	seed := raw.Seed()
	logger := s.logger.With().Str("request_id", requestID).Logger()

	var sampler CompanySampler
	if s.dataset != nil && !s.hydrationDisabled(ctx) {
		sampler = s.dataset
	}

	normalized, warnings := Normalize(ctx, raw, seed, sampler)

	if reasons := Validate(normalized); len(reasons) > 0 {
		logger.Info().Strs("reasons", reasons).Msg("request rejected by validation")
		return nil, &ValidationError{Reasons: reasons}
	}

	contextMsg, contextSig := s.runContextStage(ctx, logger, normalized)
	personalMsg, behaviorSig := s.runPersonalizationStage(ctx, logger, normalized)

	// The optimizer draws from a stream seeded by request content and
	// untouched by normalization, so its metrics depend only on the
	// request bytes.
	rng := seeded.New(seed)
	optimizationMsg, pickup, pickupTime := s.optimizePickup(
		normalized, contextSig.DemandSignal, behaviorSig.RiskAppetite, rng)

	finalMsg := StageMessage{
		Layer:     LayerFinal,
		Title:     TitleFinal,
		Text:      fmt.Sprintf("Pickup will happen today at %s.", pickupTime.Format("15:04")),
		Timestamp: s.timestamp(),
	}

	response := &Response{
		RequestID: requestID,
		Status:    "completed",
		Messages:  []StageMessage{contextMsg, personalMsg, optimizationMsg, finalMsg},
		Pickup:    pickup,
	}
	if len(warnings) > 0 {
		response.Warnings = warnings
	}

	logger.Info().
		Str("route_id", pickup.Route.RouteID).
		Int("warnings", len(warnings)).
		Msg("pipeline completed")

	return response, nil
}

func (s *Service) runContextStage(ctx context.Context, logger zerolog.Logger, req NormalizedRequest) (StageMessage, contextSignals) {
	signals := s.contextSignals(ctx, req)
	text, source := s.advisoryText(ctx, contextPrompt(signals), contextFallback(signals))
	logger.Debug().Str("layer", LayerContext).Str("source", string(source)).Msg("advisory stage done")
	return StageMessage{
		Layer:     LayerContext,
		Title:     TitleContext,
		Text:      text,
		Timestamp: s.timestamp(),
	}, signals
}

func (s *Service) runPersonalizationStage(ctx context.Context, logger zerolog.Logger, req NormalizedRequest) (StageMessage, behaviorSignals) {
	signals := s.behaviorSignals(ctx, req)
	text, source := s.advisoryText(ctx, personalizationPrompt(signals), personalizationFallback(signals))
	logger.Debug().Str("layer", LayerPersonalization).Str("source", string(source)).Msg("advisory stage done")
	return StageMessage{
		Layer:     LayerPersonalization,
		Title:     TitlePersonalization,
		Text:      text,
		Timestamp: s.timestamp(),
	}, signals
}

// advisoryText tries the external text generator once, bounded by the
// stage timeout, and falls back to the deterministic template on any
// failure or empty result. Both paths are sanitized the same way.
func (s *Service) advisoryText(ctx context.Context, prompt, fallback string) (string, TextSource) {
	if s.textGen == nil || s.textGenerationDisabled(ctx) {
		return textgen.Sanitize(fallback), SourceFallback
	}

	callCtx, cancel := context.WithTimeout(ctx, s.stageTimeout)
	defer cancel()

	generated, err := s.textGen.GenerateText(callCtx, prompt)
	if err != nil {
		return textgen.Sanitize(fallback), SourceFallback
	}
	if text := textgen.Sanitize(generated); text != "" {
		return text, SourceModel
	}
	return textgen.Sanitize(fallback), SourceFallback
}

func (s *Service) textGenerationDisabled(ctx context.Context) bool {
	return s.flags != nil && s.flags.IsTextGenerationDisabled(ctx)
}

func (s *Service) hydrationDisabled(ctx context.Context) bool {
	return s.flags != nil && s.flags.IsDatasetHydrationDisabled(ctx)
}

func (s *Service) timestamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
