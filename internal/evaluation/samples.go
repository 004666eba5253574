// Package evaluation draws random document segments from the final corpus
// into sample files for manual quality review.
package evaluation

import (
	"fmt"
	"math/rand/v2"
	"path/filepath"
	"strings"
	"time"

	"github.com/jonathan/tetun-corpus/internal/ingestion"
	"github.com/jonathan/tetun-corpus/internal/logging"
)

// Defaults for sample generation.
const (
	DefaultSamples           = 6
	DefaultSegmentsPerSample = 50
)

// InsufficientSegmentsError is returned when the corpus has fewer segments than one sample needs.
type InsufficientSegmentsError struct {
	Required  int
	Available int
}

func (e *InsufficientSegmentsError) Error() string {
	return fmt.Sprintf("insufficient segments: sample needs %d, corpus has %d", e.Required, e.Available)
}

// Options configures sample generation.
type Options struct {
	OutputDir         string
	Samples           int
	SegmentsPerSample int
}

// Segments splits corpus text on blank-line document separators and drops empty segments.
func Segments(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	var out []string
	for _, seg := range strings.Split(text, "\n\n") {
		if seg = strings.TrimSpace(seg); seg != "" {
			out = append(out, seg)
		}
	}
	return out
}

// Generate writes opts.Samples files named sample_<i>.txt. Each holds
// SegmentsPerSample distinct segments drawn independently of the other
// samples and separated by a blank line. It returns the written paths.
func Generate(corpusPath string, opts Options, rng *rand.Rand, log logging.Logger) ([]string, error) {
	log = logging.OrNop(log)
	if opts.Samples <= 0 {
		opts.Samples = DefaultSamples
	}
	if opts.SegmentsPerSample <= 0 {
		opts.SegmentsPerSample = DefaultSegmentsPerSample
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}

	text, err := ingestion.ReadText(corpusPath)
	if err != nil {
		return nil, err
	}
	segments := Segments(text)
	if len(segments) < opts.SegmentsPerSample {
		return nil, &InsufficientSegmentsError{Required: opts.SegmentsPerSample, Available: len(segments)}
	}

	paths := make([]string, 0, opts.Samples)
	for i := 1; i <= opts.Samples; i++ {
		var lines []string
		for j, idx := range rng.Perm(len(segments))[:opts.SegmentsPerSample] {
			if j > 0 {
				lines = append(lines, "")
			}
			lines = append(lines, segments[idx])
		}

		path := filepath.Join(opts.OutputDir, fmt.Sprintf("sample_%d.txt", i))
		if err := ingestion.WriteLines(path, lines); err != nil {
			return nil, err
		}
		paths = append(paths, path)
	}

	log.Info("evaluation samples generated",
		logging.Int("samples", len(paths)),
		logging.Int("segments", len(segments)),
		logging.String("dir", opts.OutputDir))
	return paths, nil
}
