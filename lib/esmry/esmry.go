package esmry

import (
	"log"
	"path/filepath"
	"strings"

	"github.com/ecl-tools/eclio/lib/eclerr"
	"github.com/ecl-tools/eclio/lib/eclfile"
)

// ESmry is a restart-chain-resolved summary run: a flat, unit-carrying,
// keyword-indexed time series materialized on demand (spec.md §4.5).
type ESmry struct {
	path            string
	loadBaseRunData bool

	chain     []*specFile
	keys      []string
	keyIndex  map[string]int
	nodes     []SummaryNode
	units     []string
	arrayPos  [][]int

	steps []timeStep

	vectors      map[string][]float32
	vectorLoaded map[string]bool

	logger *log.Logger
}

// Option configures Open beyond its required path argument.
type Option func(*options)

type options struct {
	logger          *log.Logger
	loadBaseRunData bool
}

// WithLogger routes internal diagnostics to logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *options) { o.logger = logger }
}

// WithoutRestartChain disables following RESTART into parent runs, treating
// the requested SMSPEC as a standalone run (needed before make_esmry_file,
// per spec.md §4.5).
func WithoutRestartChain() Option {
	return func(o *options) { o.loadBaseRunData = false }
}

func resolveOptions(opts []Option) *options {
	o := &options{logger: log.New(discardWriter{}, "", 0), loadBaseRunData: true}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

type discardWriter struct{}

func (discardWriter) Write(p []byte) (int, error) { return len(p), nil }

// Open resolves the restart chain rooted at path (unless
// WithoutRestartChain is given), unions every spec file's keys, and
// discovers the full ordered list of time steps across the chain
// (spec.md §4.5 steps 1-5 plus time-step discovery).
func Open(path string, opts ...Option) (*ESmry, error) {
	o := resolveOptions(opts)

	chain, err := openChain(path, o.loadBaseRunData)
	if err != nil {
		return nil, err
	}

	keys, keyIndex, nodes, units, arrayPos := unionKeys(chain)

	var steps []timeStep
	for specIdx, spec := range chain {
		resultFiles, err := discoverResultFiles(spec)
		if err != nil {
			return nil, err
		}
		spec.resultFiles = resultFiles
		for _, rf := range resultFiles {
			ef, err := eclfile.Open(rf.path, eclfile.WithLogger(o.logger))
			if err != nil {
				return nil, err
			}
			fileSteps, err := scanTimeSteps(specIdx, ef)
			if err != nil {
				return nil, err
			}
			steps = append(steps, fileSteps...)
		}
	}

	return &ESmry{
		path: path, loadBaseRunData: o.loadBaseRunData,
		chain: chain, keys: keys, keyIndex: keyIndex, nodes: nodes, units: units, arrayPos: arrayPos,
		steps: steps,
		vectors: map[string][]float32{}, vectorLoaded: map[string]bool{},
		logger: o.logger,
	}, nil
}

// Keys returns the unioned key list, ordered by first appearance across
// the restart chain (base run first).
func (e *ESmry) Keys() []string {
	out := make([]string, len(e.keys))
	copy(out, e.keys)
	return out
}

// HasKey reports whether key is defined anywhere in the restart chain.
func (e *ESmry) HasKey(key string) bool {
	_, ok := e.keyIndex[key]
	return ok
}

// NumSteps returns the number of time steps across the whole chain.
func (e *ESmry) NumSteps() int { return len(e.steps) }

// NodeOf returns the SummaryNode describing key.
func (e *ESmry) NodeOf(key string) (SummaryNode, error) {
	ordinal, ok := e.keyIndex[key]
	if !ok {
		return SummaryNode{}, eclerr.New(eclerr.NotFound, "key %q not found", key)
	}
	return e.nodes[ordinal], nil
}

// UnitOf returns the unit string for key.
func (e *ESmry) UnitOf(key string) (string, error) {
	ordinal, ok := e.keyIndex[key]
	if !ok {
		return "", eclerr.New(eclerr.NotFound, "key %q not found", key)
	}
	return e.units[ordinal], nil
}

// KeywordList returns every key whose root keyword matches pattern, a
// filepath.Match-style glob (e.g. "WOPR*"), per spec.md §9's supplemented
// API surface. Standard-library glob matching needs no ecosystem
// counterpart here: it's already exactly the pattern language Eclipse-style
// wildcards use.
func (e *ESmry) KeywordList(pattern string) ([]string, error) {
	var out []string
	for _, key := range e.keys {
		keyword := key
		if idx := strings.IndexByte(key, ':'); idx >= 0 {
			keyword = key[:idx]
		}
		ok, err := filepath.Match(pattern, keyword)
		if err != nil {
			return nil, eclerr.Wrap(eclerr.InvalidArgument, "", err, "invalid pattern %q", pattern)
		}
		if ok {
			out = append(out, key)
		}
	}
	return out, nil
}

// TimestepIdxAtReportstepStart returns the index of the first time step at
// or after report step seq (0-based ordinal among report steps), per
// spec.md §9's supplemented API surface.
func (e *ESmry) TimestepIdxAtReportstepStart(seq int) (int, error) {
	count := -1
	for i, s := range e.steps {
		if s.isReportStep {
			count++
			if count == seq {
				return i, nil
			}
		}
	}
	return 0, eclerr.New(eclerr.InvalidArgument, "report step %d out of range", seq)
}
