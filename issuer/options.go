package issuer

import "github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"

// DefaultMaxDepth bounds spec-tree recursion (spec §4.2's "DepthLimitExceeded").
const DefaultMaxDepth = 64

// Options configures a single Create call. NewOptions with no options
// yields sha-256, CSPRNG salts/decoys, no forced decoy padding beyond each
// node's own MinDigestHint, and DefaultMaxDepth; a zero Options value has
// none of these defaults filled in.
//
// Functional options over a constructor, not a builder DSL, per spec.md's
// REDESIGN FLAGS guidance and grounded on
// aries-framework-go/pkg/doc/sdjwt/issuer.New(vc, signer, issuer.WithXxx(...)).
type Options struct {
	HashAlgorithm hashset.Algorithm
	SaltProvider  hashset.SaltProvider
	DecoyGen      hashset.DecoyGen
	// DecoyStrategy, if set, overrides every node's own MinDigestHint with
	// a single process-wide policy.
	DecoyStrategy hashset.DecoyStrategy
	MaxDepth      int
}

// Option mutates Options during construction.
type Option func(*Options)

// WithHashAlgorithm selects the digest algorithm (default sha-256).
func WithHashAlgorithm(alg hashset.Algorithm) Option {
	return func(o *Options) { o.HashAlgorithm = alg }
}

// WithSaltProvider injects a deterministic salt source for tests.
func WithSaltProvider(p hashset.SaltProvider) Option {
	return func(o *Options) { o.SaltProvider = p }
}

// WithDecoyGen injects a deterministic decoy-digest source for tests.
func WithDecoyGen(g hashset.DecoyGen) Option {
	return func(o *Options) { o.DecoyGen = g }
}

// WithDecoyStrategy overrides per-node MinDigestHint with a single policy
// applied at every object/array node.
func WithDecoyStrategy(s hashset.DecoyStrategy) Option {
	return func(o *Options) { o.DecoyStrategy = s }
}

// WithMaxDepth overrides the recursion depth limit.
func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// NewOptions applies opts over the documented defaults.
func NewOptions(opts ...Option) Options {
	o := Options{
		HashAlgorithm: hashset.Default,
		SaltProvider:  hashset.DefaultSaltProvider,
		DecoyGen:      hashset.DefaultDecoyGen,
		MaxDepth:      DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o Options) strategyFor(hint int) hashset.DecoyStrategy {
	if o.DecoyStrategy != nil {
		return o.DecoyStrategy
	}
	return hashset.MinimumDigestHint{Minimum: hint}
}
