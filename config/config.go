// Package config holds the facade-level Options struct: the one ambient
// concern (per SPEC_FULL.md's AMBIENT STACK) the corpus itself keeps on
// plain Go functional options rather than a dedicated config library,
// grounded on aries-framework-go/pkg/doc/sdjwt/issuer.New's
// issuer.WithStructuredClaims(true)-style constructor options.
package config

import (
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/sdlog"
)

// Options configures the top-level facade's Issue/Verify/Present entry
// points. The defaults are filled in by NewOptions, which documents them.
type Options struct {
	HashAlgorithm hashset.Algorithm
	SaltProvider  hashset.SaltProvider
	DecoyGen      hashset.DecoyGen
	DecoyStrategy hashset.DecoyStrategy
	MaxDepth      int
	Logger        sdlog.Log
}

// Option mutates Options during construction.
type Option func(*Options)

func WithHashAlgorithm(alg hashset.Algorithm) Option {
	return func(o *Options) { o.HashAlgorithm = alg }
}

func WithSaltProvider(p hashset.SaltProvider) Option {
	return func(o *Options) { o.SaltProvider = p }
}

func WithDecoyGen(g hashset.DecoyGen) Option {
	return func(o *Options) { o.DecoyGen = g }
}

func WithDecoyStrategy(s hashset.DecoyStrategy) Option {
	return func(o *Options) { o.DecoyStrategy = s }
}

func WithMaxDepth(n int) Option {
	return func(o *Options) { o.MaxDepth = n }
}

// WithLogger attaches a logger the facade's Issue and Verify report to at
// V(1) (disclosure count on issuance, verification failures, key-binding
// outcome). Unset, the facade logs nothing.
func WithLogger(l sdlog.Log) Option {
	return func(o *Options) { o.Logger = l }
}

// NewOptions applies opts over the documented defaults: sha-256, CSPRNG
// salts/decoys, each node's own MinDigestHint (no forced DecoyStrategy),
// a depth limit of 64, and a discarding logger.
func NewOptions(opts ...Option) Options {
	o := Options{
		HashAlgorithm: hashset.Default,
		SaltProvider:  hashset.DefaultSaltProvider,
		DecoyGen:      hashset.DefaultDecoyGen,
		MaxDepth:      64,
		Logger:        sdlog.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
