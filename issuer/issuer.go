// Package issuer implements the issuance engine (spec C4, §4.2):
// create(spec) -> (payload, disclosures[]).
//
// Grounded on dc4eu-vc/pkg/sdjwtvc/methods.go's MakeCredentialWithOptions
// (sort-then-digest-then-decoy pipeline, addDecoyDigests/shuffleSDArrays)
// and pkg/sdjwt/issuerv2.go's makeSDV2 walk over the instruction tree --
// but makeSDV2's ParentArrayInstructionV2 case is an unfinished stub
// (debug fmt.Println, commented-out recursion for nested objects inside
// arrays) and makeClaimHash builds JSON via fmt.Sprintf instead of
// json.Marshal; both are fixed here (see DESIGN.md bugs #2/#2b).
package issuer

import (
	"fmt"
	"sort"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/disclosure"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/discloser"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/hashset"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/b64"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/internal/canon"
	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/sdjwterr"
)

// Result is the output of a successful issuance.
type Result struct {
	Payload     map[string]any
	Disclosures []*disclosure.Disclosure
}

type walker struct {
	opts        Options
	disclosures []*disclosure.Disclosure
}

// Create folds root into a redacted payload and its disclosure list. root
// must be an object node (discloser.ObjectAlways); the disclosable tag on
// a root node has no parent to hold a wrapping digest, so a
// discloser.ObjectSd root is rejected rather than silently treated as
// plain -- callers who want an always-visible root simply use ObjectAlways.
func Create(root discloser.Node, opts ...Option) (*Result, error) {
	o := NewOptions(opts...)
	obj, ok := root.(discloser.ObjectAlways)
	if !ok {
		return nil, &sdjwterr.InvalidDisclosure{Reason: "issuance root must be discloser.ObjectAlways"}
	}

	w := &walker{opts: o}
	payload, err := w.buildObject(obj.Fields, obj.MinDigestHint, 1)
	if err != nil {
		return nil, err
	}
	if len(w.disclosures) > 0 {
		payload["_sd_alg"] = string(o.HashAlgorithm)
	}
	return &Result{Payload: payload, Disclosures: w.disclosures}, nil
}

func (w *walker) checkDepth(depth int) error {
	if depth > w.opts.MaxDepth {
		return sdjwterr.ErrDepthLimitExceeded
	}
	return nil
}

// buildObject walks fields (in declaration order, per spec §5's ordering
// guarantee) producing the merged plain-field object plus its own sorted
// _sd array.
func (w *walker) buildObject(fields []discloser.Field, minDigestHint int, depth int) (map[string]any, error) {
	if err := w.checkDepth(depth); err != nil {
		return nil, err
	}
	if err := checkDuplicateNames(fields); err != nil {
		return nil, err
	}

	out := map[string]any{}
	var sd []string

	for _, f := range fields {
		digest, err := w.processField(out, f, depth)
		if err != nil {
			return nil, err
		}
		if digest != "" {
			sd = append(sd, digest)
		}
	}

	decoys := w.opts.strategyFor(minDigestHint).DecoysFor(len(sd))
	for i := 0; i < decoys; i++ {
		d, err := w.opts.DecoyGen.NewDecoyDigest(w.opts.HashAlgorithm)
		if err != nil {
			return nil, err
		}
		sd = append(sd, d)
	}

	if len(sd) > 0 {
		sort.Strings(sd)
		// _sd must be []any, not []string: consumers (recreate, verifier)
		// type-assert it as []any to match what json.Unmarshal produces for
		// a JSON array, since a payload can reach them either straight from
		// Create or after a JWT sign/parse round trip.
		anySd := make([]any, len(sd))
		for i, d := range sd {
			anySd[i] = d
		}
		out["_sd"] = anySd
	}
	return out, nil
}

// processField handles one object field. It returns a non-empty digest
// string when the field contributed to the parent's _sd array instead of
// a named key in out.
func (w *walker) processField(out map[string]any, f discloser.Field, depth int) (digest string, err error) {
	switch v := f.Node.(type) {
	case discloser.LeafAlways:
		out[f.Name] = v.Value
		return "", nil

	case discloser.LeafSd:
		if v.Value == nil {
			return "", sdjwterr.ErrNullNotDisclosable
		}
		salt, err := w.opts.SaltProvider.NewSalt()
		if err != nil {
			return "", err
		}
		d, err := disclosure.NewObjectProperty(salt, f.Name, v.Value, false)
		if err != nil {
			return "", err
		}
		dg, err := d.Digest(w.opts.HashAlgorithm)
		if err != nil {
			return "", err
		}
		w.disclosures = append(w.disclosures, d)
		return dg, nil

	case discloser.ObjectAlways:
		nested, err := w.buildObject(v.Fields, v.MinDigestHint, depth+1)
		if err != nil {
			return "", err
		}
		out[f.Name] = nested
		return "", nil

	case discloser.ObjectSd:
		nested, err := w.buildObject(v.Fields, v.MinDigestHint, depth+1)
		if err != nil {
			return "", err
		}
		salt, err := w.opts.SaltProvider.NewSalt()
		if err != nil {
			return "", err
		}
		d, err := disclosure.NewObjectProperty(salt, f.Name, nested, true)
		if err != nil {
			return "", err
		}
		dg, err := d.Digest(w.opts.HashAlgorithm)
		if err != nil {
			return "", err
		}
		w.disclosures = append(w.disclosures, d)
		return dg, nil

	case discloser.ArrayAlways:
		nested, err := w.buildArray(v.Elements, v.MinDigestHint, depth+1)
		if err != nil {
			return "", err
		}
		out[f.Name] = nested
		return "", nil

	case discloser.ArraySd:
		nested, err := w.buildArray(v.Elements, v.MinDigestHint, depth+1)
		if err != nil {
			return "", err
		}
		salt, err := w.opts.SaltProvider.NewSalt()
		if err != nil {
			return "", err
		}
		d, err := disclosure.NewObjectProperty(salt, f.Name, nested, true)
		if err != nil {
			return "", err
		}
		dg, err := d.Digest(w.opts.HashAlgorithm)
		if err != nil {
			return "", err
		}
		w.disclosures = append(w.disclosures, d)
		return dg, nil

	default:
		return "", &sdjwterr.InvalidDisclosure{Reason: fmt.Sprintf("unknown spec tree node %T", f.Node)}
	}
}

// buildArray walks elements in position order. Disclosable elements become
// {"...": digest} in place; decoy {"...": digest} entries (shaped
// identically, so indistinguishable from a real one) are appended after
// all real elements since, unlike an object's _sd array, an array's plain
// element positions are semantically meaningful and can't be reordered.
func (w *walker) buildArray(elements []discloser.Node, minDigestHint int, depth int) ([]any, error) {
	if err := w.checkDepth(depth); err != nil {
		return nil, err
	}

	out := make([]any, 0, len(elements))
	real := 0

	for _, elem := range elements {
		val, isDigest, err := w.processArrayElement(elem, depth)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
		if isDigest {
			real++
		}
	}

	decoys := w.opts.strategyFor(minDigestHint).DecoysFor(real)
	for i := 0; i < decoys; i++ {
		d, err := w.opts.DecoyGen.NewDecoyDigest(w.opts.HashAlgorithm)
		if err != nil {
			return nil, err
		}
		out = append(out, map[string]any{disclosure.ReservedDigest: d})
	}
	return out, nil
}

func (w *walker) processArrayElement(n discloser.Node, depth int) (value any, isDigest bool, err error) {
	switch v := n.(type) {
	case discloser.LeafAlways:
		return v.Value, false, nil

	case discloser.LeafSd:
		if v.Value == nil {
			return nil, false, sdjwterr.ErrNullNotDisclosable
		}
		salt, err := w.opts.SaltProvider.NewSalt()
		if err != nil {
			return nil, false, err
		}
		d, err := disclosure.NewArrayElement(salt, v.Value)
		if err != nil {
			return nil, false, err
		}
		dg, err := d.Digest(w.opts.HashAlgorithm)
		if err != nil {
			return nil, false, err
		}
		w.disclosures = append(w.disclosures, d)
		return map[string]any{disclosure.ReservedDigest: dg}, true, nil

	case discloser.ObjectAlways:
		nested, err := w.buildObject(v.Fields, v.MinDigestHint, depth+1)
		if err != nil {
			return nil, false, err
		}
		return nested, false, nil

	case discloser.ObjectSd:
		nested, err := w.buildObject(v.Fields, v.MinDigestHint, depth+1)
		if err != nil {
			return nil, false, err
		}
		salt, err := w.opts.SaltProvider.NewSalt()
		if err != nil {
			return nil, false, err
		}
		// NewArrayElement refuses a value carrying _sd, but a recursively
		// disclosed object legitimately does, so the wrapper is encoded here.
		raw, err := canon.Marshal([]any{string(salt), nested})
		if err != nil {
			return nil, false, &sdjwterr.InvalidDisclosure{Reason: "encoding array-element disclosure", Cause: err}
		}
		d := &disclosure.Disclosure{Salt: salt, Value: nested, Encoded: b64.Encode(raw)}
		dg, err := d.Digest(w.opts.HashAlgorithm)
		if err != nil {
			return nil, false, err
		}
		w.disclosures = append(w.disclosures, d)
		return map[string]any{disclosure.ReservedDigest: dg}, true, nil

	case discloser.ArrayAlways:
		nested, err := w.buildArray(v.Elements, v.MinDigestHint, depth+1)
		if err != nil {
			return nil, false, err
		}
		return nested, false, nil

	case discloser.ArraySd:
		nested, err := w.buildArray(v.Elements, v.MinDigestHint, depth+1)
		if err != nil {
			return nil, false, err
		}
		salt, err := w.opts.SaltProvider.NewSalt()
		if err != nil {
			return nil, false, err
		}
		d, err := disclosure.NewArrayElement(salt, nested)
		if err != nil {
			return nil, false, err
		}
		dg, err := d.Digest(w.opts.HashAlgorithm)
		if err != nil {
			return nil, false, err
		}
		w.disclosures = append(w.disclosures, d)
		return map[string]any{disclosure.ReservedDigest: dg}, true, nil

	default:
		return nil, false, &sdjwterr.InvalidDisclosure{Reason: fmt.Sprintf("unknown spec tree node %T", n)}
	}
}

func checkDuplicateNames(fields []discloser.Field) error {
	seen := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, ok := seen[f.Name]; ok {
			return sdjwterr.ErrDuplicateClaimName
		}
		seen[f.Name] = struct{}{}
	}
	return nil
}
