package berlin

import (
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// ScoringConfig holds the tunable constants of the matcher.
type ScoringConfig struct {
	// NameWeight is the weight of the name component.
	NameWeight float64 `yaml:"name_weight"`
	// FieldWeight is added for each agreeing structural hint and subtracted
	// for each contradicting one.
	FieldWeight float64 `yaml:"field_weight"`
	// AgreeThreshold is the minimum name score of a referenced entity for a
	// hint given by name ("[CO] United States") to count as agreement.
	AgreeThreshold float64 `yaml:"agree_threshold"`
	// SubstringFactor and FuzzyScale configure the name scorer.
	SubstringFactor float64 `yaml:"substring_factor"`
	FuzzyScale      float64 `yaml:"fuzzy_scale"`
	// NearRadius is the distance in degrees under which a coordinate hint agrees.
	NearRadius float64 `yaml:"near_radius"`
}

// DefaultScoring returns the constants the regression tests are pinned to.
func DefaultScoring() ScoringConfig {
	return ScoringConfig{
		NameWeight:      1.0,
		FieldWeight:     0.5,
		AgreeThreshold:  0.9,
		SubstringFactor: DefaultSubstringFactor,
		FuzzyScale:      DefaultFuzzyScale,
		NearRadius:      0.5,
	}
}

// NameScorer returns the name scorer configured by c.
func (c ScoringConfig) NameScorer() NameScorer {
	return NameScorer{SubstringFactor: c.SubstringFactor, FuzzyScale: c.FuzzyScale}
}

func (c ScoringConfig) validate() error {
	switch {
	case c.NameWeight <= 0:
		return errors.New("name_weight must be positive")
	case c.FieldWeight < 0:
		return errors.New("field_weight must not be negative")
	case c.AgreeThreshold <= 0 || c.AgreeThreshold > 1:
		return errors.New("agree_threshold must be in (0, 1]")
	case c.SubstringFactor <= 0:
		return errors.New("substring_factor must be positive")
	case c.FuzzyScale < 0:
		return errors.New("fuzzy_scale must not be negative")
	case c.NearRadius < 0:
		return errors.New("near_radius must not be negative")
	}
	return nil
}

// LoadScoringConfig reads a YAML file over the defaults. Keys missing from
// the file keep their default value.
func LoadScoringConfig(path string) (ScoringConfig, error) {
	cfg := DefaultScoring()

	fh, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("opening scoring config: %w", err)
	}
	defer fh.Close()

	if err := yaml.NewDecoder(fh).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("decoding scoring config %s: %w", path, err)
	}
	if err := cfg.validate(); err != nil {
		return cfg, fmt.Errorf("invalid scoring config %s: %w", path, err)
	}
	return cfg, nil
}

// catalogConfig contains configuration options for a Catalog.
type catalogConfig struct {
	logger  *zap.Logger
	scoring ScoringConfig
}

// Option is a functional option for configuring a Catalog.
type Option func(*catalogConfig)

// WithLogger sets the logger used to report data-quality defects.
func WithLogger(l *zap.Logger) Option {
	return func(c *catalogConfig) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithScoring sets the scoring constants of parsers created by the catalog.
func WithScoring(s ScoringConfig) Option {
	return func(c *catalogConfig) {
		c.scoring = s
	}
}

func defaultCatalogConfig() *catalogConfig {
	return &catalogConfig{
		logger:  zap.NewNop(),
		scoring: DefaultScoring(),
	}
}
