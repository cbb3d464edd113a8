package services

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/voltaware/phantomwatt/internal/config"
	"github.com/voltaware/phantomwatt/internal/detector"
	"github.com/voltaware/phantomwatt/internal/models"
)

// InventoryStore loads a user's registered appliances.
type InventoryStore interface {
	GetByUser(ctx context.Context, userID string) ([]models.Appliance, error)
}

// InventoryCache fronts the store with a best-effort cache. Implementations
// never fail a request: a cache problem is just a miss.
type InventoryCache interface {
	Get(ctx context.Context, userID string) ([]models.Appliance, bool)
	Set(ctx context.Context, userID string, appliances []models.Appliance)
}

// PhantomPredictor classifies a power series. The production implementation
// is the external classification service client; callers must expect it to
// fail and fall back to the rule-based classifier.
type PhantomPredictor interface {
	Predict(ctx context.Context, powerValues []float64) (models.DetectionResult, error)
}

// DetectRequest carries everything the detection policy branches on.
type DetectRequest struct {
	// UserID is empty for unauthenticated requests.
	UserID string
	// Simulate forces the calibrated simulation branch.
	Simulate bool
	// TargetPercent is the requested phantom share for simulation runs;
	// nil means the caller did not supply one. An explicit 0 is valid.
	TargetPercent *float64
}

// DetectionService decides how a detection request is served: demo replay,
// calibrated simulation, dataset-backed classification or a synthesized
// household day. Every branch degrades rather than errors; the service never
// returns a failure to the caller.
type DetectionService struct {
	store     InventoryStore
	cache     InventoryCache
	predictor PhantomPredictor
	cfg       *config.Config
	logger    *logrus.Logger

	// newRand is swapped for a seeded source in tests.
	newRand func() *rand.Rand
}

// NewDetectionService wires the detection policy. store and cache may be nil
// when no database is configured; requests that need the inventory then take
// the fallback branch.
func NewDetectionService(store InventoryStore, cache InventoryCache, predictor PhantomPredictor, cfg *config.Config, logger *logrus.Logger) *DetectionService {
	return &DetectionService{
		store:     store,
		cache:     cache,
		predictor: predictor,
		cfg:       cfg,
		logger:    logger,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewSource(time.Now().UnixNano()))
		},
	}
}

// Detect runs the detection decision chain. It always returns a complete,
// contract-valid envelope; internal failures are absorbed into the default
// simulation branch with an error note in the envelope.
func (s *DetectionService) Detect(ctx context.Context, req DetectRequest) (env *models.DetectionEnvelope) {
	rng := s.newRand()

	defer func() {
		if r := recover(); r != nil {
			s.logger.WithField("panic", r).Error("Detection branch panicked, serving default simulation")
			env = s.defaultFallback(rng, fmt.Sprintf("internal error: %v", r))
		}
	}()

	env, err := s.route(ctx, req, rng)
	if err != nil {
		s.logger.WithError(err).Warn("Detection branch failed, serving default simulation")
		env = s.defaultFallback(rng, err.Error())
	}
	return env
}

// route selects the branch for a request. Order matters: authentication is
// checked before the simulation flag, and the inventory is only consulted
// for authenticated non-simulation requests.
func (s *DetectionService) route(ctx context.Context, req DetectRequest, rng *rand.Rand) (*models.DetectionEnvelope, error) {
	if req.UserID == "" {
		return s.demoReplay(rng), nil
	}

	if req.Simulate {
		return s.calibratedSimulation(req.TargetPercent, rng), nil
	}

	appliances, err := s.inventory(ctx, req.UserID)
	if err != nil {
		return nil, fmt.Errorf("loading appliance inventory: %w", err)
	}

	if len(appliances) == 0 {
		return s.datasetReplay(ctx, rng), nil
	}

	return s.householdRun(ctx, appliances, rng), nil
}

// demoReplay serves unauthenticated callers the labeled sample dataset with
// ground-truth predictions and dressed confidence scores. When the dataset
// cannot be read the branch degrades to an empty-input classifier run.
func (s *DetectionService) demoReplay(rng *rand.Rand) *models.DetectionEnvelope {
	dataset, err := detector.LoadSampleDataset(s.cfg.Dataset.Path)
	if err != nil {
		s.logger.WithError(err).Warn("Sample dataset unavailable for demo, synthesizing")
		result := detector.NewClassifier(rng).Classify(nil)
		return &models.DetectionEnvelope{
			DetectionResult: result,
			Demo:            true,
			Simulated:       true,
			Fallback:        true,
		}
	}

	return &models.DetectionEnvelope{
		DetectionResult: detector.DressGroundTruth(dataset.Power, dataset.Labels, rng),
		Demo:            true,
		Fallback:        true,
	}
}

// calibratedSimulation synthesizes a day at the requested phantom share and
// scores it with the rule-based classifier, echoing the target back in the
// envelope. The external classifier is deliberately not consulted here: the
// calibrated series is constructed against the rule-based bands, so only
// that classifier's output tracks the requested target.
func (s *DetectionService) calibratedSimulation(target *float64, rng *rand.Rand) *models.DetectionEnvelope {
	targetPercent := s.defaultTargetPercent()
	if target != nil {
		targetPercent = *target
	}

	series := detector.SynthesizeCalibrated(targetPercent, rng)
	result := detector.NewClassifier(rng).Classify(series)

	return &models.DetectionEnvelope{
		DetectionResult:         result,
		Simulated:               true,
		TargetPhantomPercentage: &targetPercent,
	}
}

// datasetReplay classifies the sample dataset's power column for users with
// an empty inventory. Labels are ignored here: this branch demonstrates the
// classifier, not the dataset's ground truth.
func (s *DetectionService) datasetReplay(ctx context.Context, rng *rand.Rand) *models.DetectionEnvelope {
	dataset, err := detector.LoadSampleDataset(s.cfg.Dataset.Path)
	if err != nil {
		// Same degrade path as the demo branch: an empty-input
		// classifier run, never the external service.
		s.logger.WithError(err).Warn("Sample dataset unavailable, synthesizing")
		result := detector.NewClassifier(rng).Classify(nil)
		return &models.DetectionEnvelope{
			DetectionResult: result,
			Simulated:       true,
			Fallback:        true,
		}
	}

	result, fellBack := s.classify(ctx, dataset.Power, rng)
	return &models.DetectionEnvelope{
		DetectionResult: result,
		Simulated:       true,
		FromSampleData:  true,
		Fallback:        fellBack,
	}
}

// householdRun synthesizes a day of readings from the user's appliances and
// classifies it.
func (s *DetectionService) householdRun(ctx context.Context, appliances []models.Appliance, rng *rand.Rand) *models.DetectionEnvelope {
	series := detector.SynthesizeHousehold(appliances, rng)
	result, fellBack := s.classify(ctx, series, rng)

	return &models.DetectionEnvelope{
		DetectionResult: result,
		Simulated:       true,
		Fallback:        fellBack,
	}
}

// defaultFallback is the terminal branch: a calibrated day at the configured
// default share, classified heuristically, with the failure recorded in the
// envelope. It cannot itself fail.
func (s *DetectionService) defaultFallback(rng *rand.Rand, errMsg string) *models.DetectionEnvelope {
	series := detector.SynthesizeCalibrated(s.defaultTargetPercent(), rng)
	result := detector.NewClassifier(rng).Classify(series)

	return &models.DetectionEnvelope{
		DetectionResult: result,
		Simulated:       true,
		Fallback:        true,
		Error:           errMsg,
	}
}

// classify tries the external predictor first and falls back to the
// rule-based classifier on any failure. The second return reports whether
// the fallback was used.
func (s *DetectionService) classify(ctx context.Context, series []float64, rng *rand.Rand) (models.DetectionResult, bool) {
	if s.predictor != nil {
		result, err := s.predictor.Predict(ctx, series)
		if err == nil {
			return result, false
		}
		if !errors.Is(err, context.Canceled) {
			s.logger.WithError(err).Warn("External classifier failed, using rule-based classifier")
		}
	}

	return detector.NewClassifier(rng).Classify(series), true
}

// inventory reads the user's appliances through the cache.
func (s *DetectionService) inventory(ctx context.Context, userID string) ([]models.Appliance, error) {
	if s.cache != nil {
		if appliances, ok := s.cache.Get(ctx, userID); ok {
			return appliances, nil
		}
	}

	if s.store == nil {
		return nil, errors.New("appliance store not configured")
	}

	appliances, err := s.store.GetByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, userID, appliances)
	}
	return appliances, nil
}

func (s *DetectionService) defaultTargetPercent() float64 {
	if s.cfg.Simulation.DefaultTargetPercent > 0 {
		return s.cfg.Simulation.DefaultTargetPercent
	}
	return detector.DefaultTargetPercent
}
