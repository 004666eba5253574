package sampling

import (
	"errors"
	"math"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/jonathan/tetun-corpus/internal/ingestion"
	"github.com/jonathan/tetun-corpus/internal/logging"
	"github.com/jonathan/tetun-corpus/internal/tokenize"
)

// Defaults for seed-word sampling.
const (
	DefaultSampleRatio = 0.1
	DefaultNumWords    = 3
)

// TokenGate keeps the texts identified as the target language.
type TokenGate interface {
	ClassifyBatch(texts []string) ([]string, error)
}

// Options configures a Sampler.
type Options struct {
	SampleRatio float64
	NumWords    int
	// SeedWordsPath receives one space-joined line per draw. Empty disables it.
	SeedWordsPath string
}

// Sampler draws seed words from corpus lines.
type Sampler struct {
	gate TokenGate
	tok  tokenize.Tokenizer
	rng  *rand.Rand
	opts Options
	log  logging.Logger
}

// NewSampler returns a Sampler. A nil rng is seeded from the clock.
func NewSampler(gate TokenGate, tok tokenize.Tokenizer, opts Options, rng *rand.Rand, log logging.Logger) *Sampler {
	if opts.SampleRatio <= 0 {
		opts.SampleRatio = DefaultSampleRatio
	}
	if opts.NumWords <= 0 {
		opts.NumWords = DefaultNumWords
	}
	if tok == nil {
		tok = tokenize.NewWordTokenizer(true)
	}
	if rng == nil {
		seed := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(seed, seed>>1))
	}
	return &Sampler{gate: gate, tok: tok, rng: rng, opts: opts, log: logging.OrNop(log)}
}

// Distribution samples floor(ratio*len(lines)) lines without replacement,
// tokenizes their lower-cased text and builds the frequency distribution of
// the tokens the gate admits.
func (s *Sampler) Distribution(lines []string) (Distribution, error) {
	size := int(math.Floor(s.opts.SampleRatio * float64(len(lines))))
	size = min(size, len(lines))

	sample := make([]string, 0, size)
	for _, i := range s.rng.Perm(len(lines))[:size] {
		sample = append(sample, lines[i])
	}

	tokens := s.tok.Tokenize(tokenize.Lower(strings.Join(sample, "\n")))
	if len(tokens) == 0 {
		return NewDistribution(nil), nil
	}

	kept, err := s.gate.ClassifyBatch(tokens)
	if err != nil {
		return Distribution{}, err
	}

	s.log.Debug("sampled corpus",
		logging.Int("lines", size),
		logging.Int("tokens", len(tokens)),
		logging.Int("target_tokens", len(kept)))
	return NewDistribution(kept), nil
}

// Sample draws the configured number of distinct seed words from lines and
// appends them to the seed-words file.
func (s *Sampler) Sample(lines []string) ([]string, error) {
	dist, err := s.Distribution(lines)
	if err != nil {
		return nil, err
	}

	words, err := dist.Draw(s.opts.NumWords, s.rng)
	if err != nil {
		return nil, err
	}

	if s.opts.SeedWordsPath != "" {
		if err := ingestion.AppendLines(s.opts.SeedWordsPath, strings.Join(words, " ")); err != nil {
			return nil, err
		}
	}
	s.log.Info("seed words drawn", logging.Strings("words", words))
	return words, nil
}

// SampleFile reads the corpus at path and calls Sample. A missing or
// unreadable corpus is reported and yields no words rather than an error.
func (s *Sampler) SampleFile(path string) ([]string, error) {
	lines, err := ingestion.LoadLines(path)
	if err != nil {
		if errors.Is(err, ingestion.ErrFileNotFound) || errors.Is(err, ingestion.ErrInvalidEncoding) {
			s.log.Warn("corpus unavailable, no seed words drawn", logging.String("path", path), logging.Error(err))
			return nil, nil
		}
		return nil, err
	}
	return s.Sample(lines)
}
