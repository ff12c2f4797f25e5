// Package hashset implements the SD-JWT hash-algorithm enumeration
// {sha-256, sha-384, sha-512, sha3-256, sha3-384, sha3-512} plus the random
// salt and decoy-digest primitives built on top of it.
//
// Grounded on dc4eu-vc/pkg/sdjwtvc/keybinding.go's getHashFromAlgorithm and
// methods.go's getHashAlgorithmName, extended to cover sha3-384 (missing
// from both reference implementations) and MichaelFraser99/go-sd-jwt's
// internal/salt/salt.go for the salt shape.
package hashset

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"hash"

	"golang.org/x/crypto/sha3"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/b64"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
)

// Algorithm is one member of the closed hash-algorithm enumeration.
type Algorithm string

const (
	SHA256  Algorithm = "sha-256"
	SHA384  Algorithm = "sha-384"
	SHA512  Algorithm = "sha-512"
	SHA3256 Algorithm = "sha3-256"
	SHA3384 Algorithm = "sha3-384"
	SHA3512 Algorithm = "sha3-512"

	// Default is used whenever _sd_alg is absent from a payload.
	Default Algorithm = SHA256
)

// New returns a fresh hash.Hash for alg, or an UnsupportedHashingAlgorithm
// error if alg is not one of the six enumeration members.
func New(alg Algorithm) (hash.Hash, error) {
	switch alg {
	case SHA256:
		return sha256.New(), nil
	case SHA384:
		return sha512.New384(), nil
	case SHA512:
		return sha512.New(), nil
	case SHA3256:
		return sha3.New256(), nil
	case SHA3384:
		return sha3.New384(), nil
	case SHA3512:
		return sha3.New512(), nil
	default:
		return nil, &sdjwterr.UnsupportedHashingAlgorithm{Name: string(alg)}
	}
}

// Valid reports whether alg is a known enumeration member.
func Valid(alg Algorithm) bool {
	_, err := New(alg)
	return err == nil
}

// Digest hashes data under alg and returns the base64url, unpadded encoding
// of the sum -- the "Disclosure digest" of §3.
func Digest(alg Algorithm, data []byte) (string, error) {
	h, err := New(alg)
	if err != nil {
		return "", err
	}
	h.Write(data)
	return b64.Encode(h.Sum(nil)), nil
}

// Salt is a byte string carried base64url-encoded, the first element of
// every disclosure's JSON array.
type Salt string

// SaltProvider supplies fresh salts; injected so tests can fix their
// output and issuance stays deterministic given a fixed provider.
type SaltProvider interface {
	NewSalt() (Salt, error)
}

// randomSaltProvider is the production CSPRNG-backed provider: 16 random
// bytes, base64url-no-padding, matching
// MichaelFraser99/go-sd-jwt/internal/salt.NewSalt.
type randomSaltProvider struct{}

// DefaultSaltProvider is the process-wide CSPRNG salt source.
var DefaultSaltProvider SaltProvider = randomSaltProvider{}

func (randomSaltProvider) NewSalt() (Salt, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sdjwt: error generating salt value: %w", err)
	}
	return Salt(b64.Encode(buf)), nil
}

// DecoyGen produces decoy digests: digest-shaped random values inserted
// into _sd arrays purely to hide the true disclosure count.
type DecoyGen interface {
	NewDecoyDigest(alg Algorithm) (string, error)
}

// randomDecoyGen hashes 32 fresh random bytes per decoy, matching
// dc4eu-vc/pkg/sdjwtvc/methods.go's generateDecoyDigest.
type randomDecoyGen struct{}

// DefaultDecoyGen is the process-wide CSPRNG decoy source.
var DefaultDecoyGen DecoyGen = randomDecoyGen{}

func (randomDecoyGen) NewDecoyDigest(alg Algorithm) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("sdjwt: error generating decoy value: %w", err)
	}
	return Digest(alg, buf)
}

// DecoyStrategy decides how many decoy digests to add to a node given the
// number of real digests it carries. The default policy pads up to a fixed
// minimum; callers may inject their own (random jitter, always-zero, etc).
type DecoyStrategy interface {
	DecoysFor(real int) int
}

// MinimumDigestHint adds enough decoys to bring real digests up to Minimum
// digests in total, matching the
// "decoys = max(0, minimum_digests_hint - actual_digest_count)" rule of
// spec §4.2.
type MinimumDigestHint struct {
	Minimum int
}

func (m MinimumDigestHint) DecoysFor(real int) int {
	if d := m.Minimum - real; d > 0 {
		return d
	}
	return 0
}

// NoDecoys never adds decoys.
type NoDecoys struct{}

func (NoDecoys) DecoysFor(int) int { return 0 }
