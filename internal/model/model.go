// Package model loads and applies the trained regression artifact. The
// artifact is read once at startup and is immutable afterwards, so a loaded
// Artifact is safe for concurrent use. Every failure mode is surfaced as an
// error the blended evaluator can branch on; nothing here panics past the
// package boundary.
package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"os"

	"chessadvisor/internal/feature"
)

// Layout tags the artifact format: a flat linear model over the versioned
// feature schema.
const Layout = "linear_v1"

var (
	// ErrUnavailable reports that no usable model is loaded; callers fall
	// back to heuristic-only scoring.
	ErrUnavailable = errors.New("model unavailable")
	// ErrSchemaMismatch reports an artifact trained against a different
	// feature schema. Treated like ErrUnavailable by callers, but logged
	// distinctly for operators.
	ErrSchemaMismatch = errors.New("feature schema mismatch")
)

// Artifact is a trained linear regression: score = intercept + w · features.
type Artifact struct {
	intercept   float64
	weights     []float64
	fingerprint string
}

type artifactJSON struct {
	Layout       string    `json:"layout"`
	SchemaVer    int       `json:"feature_schema"`
	FeatureNames []string  `json:"feature_names"`
	Intercept    float64   `json:"intercept"`
	Weights      []float64 `json:"weights"`
}

// Load reads and validates a model artifact file.
func Load(path string) (*Artifact, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var a artifactJSON
	if err := json.Unmarshal(raw, &a); err != nil {
		return nil, fmt.Errorf("%w: corrupt artifact: %v", ErrUnavailable, err)
	}
	if a.Layout != Layout {
		return nil, fmt.Errorf("%w: layout %q, want %q", ErrSchemaMismatch, a.Layout, Layout)
	}
	if a.SchemaVer != feature.SchemaVersion {
		return nil, fmt.Errorf("%w: schema %d, want %d", ErrSchemaMismatch, a.SchemaVer, feature.SchemaVersion)
	}
	if len(a.Weights) != feature.Count {
		return nil, fmt.Errorf("%w: %d weights, want %d", ErrSchemaMismatch, len(a.Weights), feature.Count)
	}
	if len(a.FeatureNames) != 0 {
		if len(a.FeatureNames) != feature.Count {
			return nil, fmt.Errorf("%w: %d feature names, want %d", ErrSchemaMismatch, len(a.FeatureNames), feature.Count)
		}
		for i, name := range a.FeatureNames {
			if name != feature.Names[i] {
				return nil, fmt.Errorf("%w: feature %d is %q, want %q", ErrSchemaMismatch, i, name, feature.Names[i])
			}
		}
	}
	for _, w := range a.Weights {
		if math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, fmt.Errorf("%w: non-finite weight", ErrUnavailable)
		}
	}
	return &Artifact{
		intercept:   a.Intercept,
		weights:     a.Weights,
		fingerprint: fingerprint(a.Intercept, a.Weights),
	}, nil
}

// Save writes an artifact file for the current feature schema. Written to a
// temp file first so a crash never leaves a truncated artifact behind.
func Save(path string, intercept float64, weights []float64) error {
	if len(weights) != feature.Count {
		return fmt.Errorf("%w: %d weights, want %d", ErrSchemaMismatch, len(weights), feature.Count)
	}
	payload := artifactJSON{
		Layout:       Layout,
		SchemaVer:    feature.SchemaVersion,
		FeatureNames: feature.Names,
		Intercept:    intercept,
		Weights:      weights,
	}
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// Predict maps a feature vector to a scalar score. A nil Artifact reports
// ErrUnavailable so callers hold one fallback path for "never loaded" and
// "failed to load".
func (a *Artifact) Predict(v feature.Vector) (float64, error) {
	if a == nil {
		return 0, ErrUnavailable
	}
	score := a.intercept
	for i, w := range a.weights {
		score += w * v[i]
	}
	if math.IsNaN(score) || math.IsInf(score, 0) {
		return 0, fmt.Errorf("%w: non-finite prediction", ErrUnavailable)
	}
	return score, nil
}

// Fingerprint identifies the loaded weights for cache keying. Empty for a
// nil Artifact.
func (a *Artifact) Fingerprint() string {
	if a == nil {
		return ""
	}
	return a.fingerprint
}

func fingerprint(intercept float64, weights []float64) string {
	h := fnv.New64a()
	buf := make([]byte, 8)
	put := func(f float64) {
		bits := math.Float64bits(f)
		for i := 0; i < 8; i++ {
			buf[i] = byte(bits >> (8 * i))
		}
		h.Write(buf)
	}
	put(intercept)
	for _, w := range weights {
		put(w)
	}
	return fmt.Sprintf("%s-%d-%016x", Layout, feature.SchemaVersion, h.Sum64())
}
