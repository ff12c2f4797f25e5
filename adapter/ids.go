package adapter

import "github.com/google/uuid"

// NewJTI generates a default `jti` claim value for issuance, matching the
// uuid.NewString()-keyed convention dc4eu-vc uses throughout its issuer and
// OpenID4VP code paths.
func NewJTI() string { return uuid.NewString() }

// NewNonce generates a default holder-binding nonce for a verifier to hand
// to a holder before requesting a KB-JWT presentation.
func NewNonce() string { return uuid.NewString() }
