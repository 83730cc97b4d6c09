package tonal

import (
	"github.com/solenne-ai/cadenza/algorithms/chroma"
	"github.com/solenne-ai/cadenza/algorithms/common"
)

// ChordResult contains the outcome of triad detection on a single
// chroma vector.
type ChordResult struct {
	Detected   bool    `json:"detected"`
	Root       int     `json:"root"`       // Pitch class of the root (0=C)
	RootName   string  `json:"root_name"`  // "C", "C#", ...
	Quality    string  `json:"quality"`    // "maj", "min", or "" for root-only
	Label      string  `json:"label"`      // "Cmaj", "Cmin", or "C"
	Confidence float64 `json:"confidence"` // Mean energy of the contributing bins
}

// ChordDetector identifies major/minor triads from a 12-bin chroma
// vector. The strongest pitch class is taken as the root; a third plus
// a fifth above it confirm the triad quality. Without confirmation the
// root alone is reported.
type ChordDetector struct {
	rootThreshold float64
}

// NewChordDetector creates a detector with the standard 0.30 chroma
// energy threshold.
func NewChordDetector() *ChordDetector {
	return NewChordDetectorWithThreshold(0.30)
}

// NewChordDetectorWithThreshold creates a detector with a custom
// chroma energy threshold.
func NewChordDetectorWithThreshold(threshold float64) *ChordDetector {
	if threshold <= 0 {
		threshold = 0.30
	}
	return &ChordDetector{rootThreshold: threshold}
}

// Detect analyzes one chroma vector. Vectors that are not 12 bins or
// whose strongest bin stays under the threshold yield Detected=false.
func (cd *ChordDetector) Detect(chromaVector []float64) ChordResult {
	if len(chromaVector) != 12 {
		return ChordResult{}
	}

	root := common.ArgMax(chromaVector)
	if root < 0 || chromaVector[root] < cd.rootThreshold {
		return ChordResult{}
	}

	majorThird := chromaVector[(root+chroma.IntervalMajorThird)%12]
	minorThird := chromaVector[(root+chroma.IntervalMinorThird)%12]
	fifth := chromaVector[(root+chroma.IntervalFifth)%12]

	result := ChordResult{
		Detected: true,
		Root:     root,
		RootName: chroma.NoteName(root),
	}

	hasFifth := fifth >= cd.rootThreshold
	hasMajor := majorThird >= cd.rootThreshold
	hasMinor := minorThird >= cd.rootThreshold

	switch {
	case hasFifth && hasMajor && (!hasMinor || majorThird >= minorThird):
		result.Quality = "maj"
		result.Label = result.RootName + "maj"
		result.Confidence = (chromaVector[root] + majorThird + fifth) / 3.0
	case hasFifth && hasMinor:
		result.Quality = "min"
		result.Label = result.RootName + "min"
		result.Confidence = (chromaVector[root] + minorThird + fifth) / 3.0
	default:
		// Root stands alone, no confirmed triad
		result.Label = result.RootName
		result.Confidence = chromaVector[root]
	}

	return result
}
