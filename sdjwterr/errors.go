// Package sdjwterr defines the error taxonomy shared by every core package.
// Every failure that crosses a public boundary is one of these typed values;
// none are recovered internally.
package sdjwterr

import (
	"errors"
	"fmt"
)

// Sentinels for kinds that carry no extra context of their own.
var (
	ErrParsingError                = errors.New("sdjwt: wire string does not decompose")
	ErrNonUniqueDisclosures         = errors.New("sdjwt: two disclosure strings are byte-identical")
	ErrNonUniqueDisclosureDigests   = errors.New("sdjwt: the same digest appears at two sites")
	ErrUnexpectedKeyBindingJwt      = errors.New("sdjwt: key binding jwt present but not expected")
	ErrMissingKeyBindingJwt         = errors.New("sdjwt: key binding jwt required but absent")
	ErrMissingHolderPublicKey       = errors.New("sdjwt: no holder public key found for key binding")
	ErrUnsupportedHolderPublicKey   = errors.New("sdjwt: holder public key type is not supported")
	ErrNullNotDisclosable           = errors.New("sdjwt: a disclosable leaf may not carry a JSON null value")
	ErrDuplicateClaimName           = errors.New("sdjwt: a plain value shadows a disclosed name at the same level")
	ErrDepthLimitExceeded           = errors.New("sdjwt: spec tree or payload recursion exceeded the configured depth limit")
)

// InvalidJwt reports a JWT signature failure or a malformed _sd_alg claim.
type InvalidJwt struct {
	Reason string
	Cause  error
}

func (e *InvalidJwt) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sdjwt: invalid jwt: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("sdjwt: invalid jwt: %s", e.Reason)
}

func (e *InvalidJwt) Unwrap() error { return e.Cause }

// UnsupportedHashingAlgorithm reports an _sd_alg naming an unknown algorithm.
type UnsupportedHashingAlgorithm struct {
	Name string
}

func (e *UnsupportedHashingAlgorithm) Error() string {
	return fmt.Sprintf("sdjwt: unsupported hashing algorithm %q", e.Name)
}

// InvalidDisclosures reports one or more disclosure strings that failed to parse.
type InvalidDisclosures struct {
	Raw   []string
	Cause error
}

func (e *InvalidDisclosures) Error() string {
	return fmt.Sprintf("sdjwt: %d invalid disclosure(s): %v", len(e.Raw), e.Cause)
}

func (e *InvalidDisclosures) Unwrap() error { return e.Cause }

// MissingDigests reports disclosures whose digest is nowhere to be found.
type MissingDigests struct {
	Disclosures []string // encoded disclosure strings
}

func (e *MissingDigests) Error() string {
	return fmt.Sprintf("sdjwt: %d disclosure(s) have no matching digest in the payload", len(e.Disclosures))
}

// KeyBindingSubKind enumerates the KeyBindingFailed sub-kinds.
type KeyBindingSubKind string

const (
	KBMissingHolderPublicKey     KeyBindingSubKind = "MissingHolderPublicKey"
	KBUnsupportedHolderPublicKey KeyBindingSubKind = "UnsupportedHolderPublicKey"
	KBInvalidKeyBindingJwt       KeyBindingSubKind = "InvalidKeyBindingJwt"
	KBUnexpectedKeyBindingJwt    KeyBindingSubKind = "UnexpectedKeyBindingJwt"
	KBMissingKeyBindingJwt       KeyBindingSubKind = "MissingKeyBindingJwt"
)

// KeyBindingFailed wraps any failure in the key-binding verification arm.
type KeyBindingFailed struct {
	SubKind KeyBindingSubKind
	Reason  string
	Cause   error
}

func (e *KeyBindingFailed) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("sdjwt: key binding failed (%s): %s", e.SubKind, e.Reason)
	}
	return fmt.Sprintf("sdjwt: key binding failed (%s)", e.SubKind)
}

func (e *KeyBindingFailed) Unwrap() error { return e.Cause }

// DigestSite names where a digest collision was found, for errors that need
// to identify a specific path rather than just the digest value.
type DigestSite struct {
	Path   string
	Digest string
}

// NonUniqueDisclosureDigests reports the same digest appearing at two sites
// in a payload (plus nested disclosure values), naming the second site
// found. Unwraps to ErrNonUniqueDisclosureDigests for errors.Is checks that
// don't need the site detail.
type NonUniqueDisclosureDigests struct {
	Site DigestSite
}

func (e *NonUniqueDisclosureDigests) Error() string {
	return fmt.Sprintf("sdjwt: digest %q appears twice, again at %s", e.Site.Digest, e.Site.Path)
}

func (e *NonUniqueDisclosureDigests) Unwrap() error { return ErrNonUniqueDisclosureDigests }

// InvalidDisclosure reports a structural problem creating or parsing a
// single disclosure (reserved key used as a name, wrong element count, etc).
type InvalidDisclosure struct {
	Reason string
	Cause  error
}

func (e *InvalidDisclosure) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("sdjwt: invalid disclosure: %s: %v", e.Reason, e.Cause)
	}
	return fmt.Sprintf("sdjwt: invalid disclosure: %s", e.Reason)
}

func (e *InvalidDisclosure) Unwrap() error { return e.Cause }
