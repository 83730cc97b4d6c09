package tonal

import (
	"gonum.org/v1/gonum/stat"

	"github.com/solenne-ai/cadenza/algorithms/chroma"
)

// KeyMode represents major or minor mode
type KeyMode int

const (
	KeyModeMajor KeyMode = iota
	KeyModeMinor
)

func (m KeyMode) String() string {
	if m == KeyModeMinor {
		return "minor"
	}
	return "major"
}

// KeyEstimationResult contains key estimation results
type KeyEstimationResult struct {
	Key               int       `json:"key"`        // Best key estimate (0=C, ..., 11=B)
	Mode              KeyMode   `json:"mode"`       // Major or Minor
	KeyName           string    `json:"key_name"`   // Human-readable name (e.g., "C major")
	Confidence        float64   `json:"confidence"` // Correlation with the winning profile, clamped to [0,1]
	CorrelationScores []float64 `json:"correlation_scores"`
}

// Krumhansl-Schmuckler profiles (empirically derived from listener ratings)
var (
	krumhanslMajor = []float64{6.35, 2.23, 3.48, 2.33, 4.38, 4.09, 2.52, 5.19, 2.39, 3.66, 2.29, 2.88}
	krumhanslMinor = []float64{6.33, 2.68, 3.52, 5.38, 2.60, 3.53, 2.54, 4.75, 3.98, 2.69, 3.34, 3.17}
)

// KeyEstimator estimates musical key by correlating a chroma profile
// against the Krumhansl-Schmuckler templates at all 12 transpositions
// in both modes.
type KeyEstimator struct {
	majorProfile []float64
	minorProfile []float64
}

// NewKeyEstimator creates a key estimator using the Krumhansl profiles
func NewKeyEstimator() *KeyEstimator {
	return &KeyEstimator{
		majorProfile: krumhanslMajor,
		minorProfile: krumhanslMinor,
	}
}

// EstimateKey estimates the key of a 12-bin chroma vector. A flat or
// empty vector yields C major at zero confidence rather than NaN.
func (ke *KeyEstimator) EstimateKey(chromaVector []float64) KeyEstimationResult {
	result := KeyEstimationResult{
		KeyName:           GetKeyName(0, KeyModeMajor),
		CorrelationScores: make([]float64, 24),
	}

	if len(chromaVector) != 12 || isFlat(chromaVector) {
		return result
	}

	bestCorr := -2.0

	for key := 0; key < 12; key++ {
		majorCorr := ke.correlateAtKey(chromaVector, ke.majorProfile, key)
		result.CorrelationScores[key] = majorCorr
		if majorCorr > bestCorr {
			bestCorr = majorCorr
			result.Key = key
			result.Mode = KeyModeMajor
		}

		minorCorr := ke.correlateAtKey(chromaVector, ke.minorProfile, key)
		result.CorrelationScores[key+12] = minorCorr
		if minorCorr > bestCorr {
			bestCorr = minorCorr
			result.Key = key
			result.Mode = KeyModeMinor
		}
	}

	result.KeyName = GetKeyName(result.Key, result.Mode)
	if bestCorr > 0 {
		result.Confidence = bestCorr
	}
	if result.Confidence > 1 {
		result.Confidence = 1
	}

	return result
}

// correlateAtKey correlates the chroma vector against the profile
// transposed so its tonic sits at the candidate key.
func (ke *KeyEstimator) correlateAtKey(chromaVector, profile []float64, key int) float64 {
	shifted := make([]float64, 12)
	for i := range profile {
		shifted[(i+key)%12] = profile[i]
	}
	return stat.Correlation(chromaVector, shifted, nil)
}

// isFlat reports whether every bin carries the same value, which makes
// correlation undefined.
func isFlat(values []float64) bool {
	for _, v := range values[1:] {
		if v != values[0] {
			return false
		}
	}
	return true
}

// GetKeyName returns a human-readable key name
func GetKeyName(key int, mode KeyMode) string {
	return chroma.NoteName(key) + " " + mode.String()
}

// Diatonic scale degrees in semitones from the tonic
var (
	majorScaleDegrees = []int{0, 2, 4, 5, 7, 9, 11}
	minorScaleDegrees = []int{0, 2, 3, 5, 7, 8, 10}
)

// IsDiatonic reports whether a pitch class belongs to the given key's
// scale (natural minor for minor keys).
func IsDiatonic(key int, mode KeyMode, pitchClass int) bool {
	degrees := majorScaleDegrees
	if mode == KeyModeMinor {
		degrees = minorScaleDegrees
	}

	interval := ((pitchClass-key)%12 + 12) % 12
	for _, d := range degrees {
		if interval == d {
			return true
		}
	}
	return false
}
