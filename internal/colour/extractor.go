package colour

import (
	"context"
	"fmt"
)

// Cluster is one group of pixels produced by palette extraction.
type Cluster struct {
	// Centroid is the mean colour of the cluster, rounded to integer channels.
	Centroid RGB `json:"centroid" yaml:"centroid"`

	// Count is the number of pixels assigned to the cluster.
	Count int `json:"count" yaml:"count"`
}

// Extractor defines the interface for palette extraction.
type Extractor interface {
	// Extract partitions pixels into k clusters. It returns exactly k
	// clusters whose counts sum to len(pixels).
	Extract(ctx context.Context, pixels []RGB, k int) ([]Cluster, error)
}

const (
	// DefaultSeed is the random seed used for centroid initialisation.
	DefaultSeed uint64 = 42

	// DefaultRestarts is the number of independent initialisations per extraction.
	DefaultRestarts = 8

	// DefaultMaxIterations caps Lloyd iterations per initialisation.
	DefaultMaxIterations = 300

	// DefaultTolerance is the relative centroid-shift threshold for convergence.
	DefaultTolerance = 1e-4
)

// ExtractorConfig holds configuration for palette extraction.
type ExtractorConfig struct {
	Seed          uint64
	Restarts      int
	MaxIterations int
	Tolerance     float64
}

// DefaultExtractorConfig returns the default extractor configuration.
func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		Seed:          DefaultSeed,
		Restarts:      DefaultRestarts,
		MaxIterations: DefaultMaxIterations,
		Tolerance:     DefaultTolerance,
	}
}

// Validate validates the extractor configuration.
func (c ExtractorConfig) Validate() error {
	if c.Restarts < 1 {
		return fmt.Errorf("%w: restarts must be at least 1, got %d", ErrInvalidParameter, c.Restarts)
	}
	if c.MaxIterations < 1 {
		return fmt.Errorf("%w: max iterations must be at least 1, got %d", ErrInvalidParameter, c.MaxIterations)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance must not be negative, got %g", ErrInvalidParameter, c.Tolerance)
	}
	return nil
}

// NewExtractor creates the k-means Extractor for cfg.
func NewExtractor(cfg ExtractorConfig) (Extractor, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return NewKMeansExtractor(cfg), nil
}

// validateCount checks k against the number of pixels available.
func validateCount(k, pixels int) error {
	if pixels == 0 {
		return fmt.Errorf("%w: image has no pixels", ErrInvalidInput)
	}
	if k < 1 {
		return fmt.Errorf("%w: colour count must be at least 1, got %d", ErrInvalidParameter, k)
	}
	if k > pixels {
		return fmt.Errorf("%w: colour count %d exceeds pixel count %d", ErrInvalidParameter, k, pixels)
	}
	return nil
}
