// Package vctm implements SD-JWT VC Type Metadata (draft-13 §6-9): the
// optional layer describing a credential type's display properties and
// per-claim selective-disclosure rules.
//
// Grounded on dc4eu-vc/pkg/sdjwtvc/types.go's VCTM/Claim/ClaimDisplay
// structs, adapted to build claimpath.Path values (rather than the
// reference's ad-hoc "$.a.b" string concatenation in Claim.JSONPath, which
// mishandles a nil path element meant to select every array index) and to
// check the sd policy against an issued credential's recreated claim tree
// rather than only describing it for wallets.
package vctm

import (
	"fmt"

	"github.com/eu-digital-identity-wallet/eudi-lib-go-sdjwt/claimpath"
)

// SDPolicy is the §9.4 `sd` enumeration for one claim's disclosability.
type SDPolicy string

const (
	SDAlways  SDPolicy = "always"
	SDAllowed SDPolicy = "allowed" // default when a Claim omits `sd`
	SDNever   SDPolicy = "never"
)

// VCTM is the Verifiable Credential Type Metadata document.
type VCTM struct {
	VCT                string        `json:"vct"`
	Name               string        `json:"name,omitempty"`
	Description        string        `json:"description,omitempty"`
	Comment            string        `json:"$comment,omitempty"`
	Display            []Display     `json:"display,omitempty"`
	Claims             []Claim       `json:"claims,omitempty"`
	SchemaURL          string        `json:"schema_url,omitempty"`
	SchemaURLIntegrity string        `json:"schema_url#integrity,omitempty"`
	Extends            string        `json:"extends,omitempty"`
	ExtendsIntegrity   string        `json:"extends#integrity,omitempty"`
}

// Display is one locale's rendering information (§8).
type Display struct {
	Lang        string    `json:"lang"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Rendering   Rendering `json:"rendering,omitempty"`
}

type Rendering struct {
	Simple       SimpleRendering `json:"simple,omitempty"`
	SVGTemplates []SVGTemplate   `json:"svg_templates,omitempty"`
}

type SimpleRendering struct {
	Logo            Logo    `json:"logo,omitempty"`
	BackgroundImage *Logo   `json:"background_image,omitempty"`
	BackgroundColor string  `json:"background_color,omitempty"`
	TextColor       string  `json:"text_color,omitempty"`
}

type Logo struct {
	URI          string `json:"uri"`
	URIIntegrity string `json:"uri#integrity,omitempty"`
	AltText      string `json:"alt_text,omitempty"`
}

type SVGTemplate struct {
	URI          string                `json:"uri"`
	URIIntegrity string                `json:"uri#integrity,omitempty"`
	Properties   SVGTemplateProperties `json:"properties,omitempty"`
}

type SVGTemplateProperties struct {
	Orientation string `json:"orientation,omitempty"`
	ColorScheme string `json:"color_scheme,omitempty"`
	Contrast    string `json:"contrast,omitempty"`
}

// PathElement is one §9.1 path component: exactly one of Name, Index, or
// AllElements is set, mirroring the reference's []*string encoding (a nil
// entry means "every array element") but typed instead of stringly.
type PathElement struct {
	Name        string
	Index       int
	IsIndex     bool
	AllElements bool
}

// Claim is one claim's display/disclosability metadata (§9).
type Claim struct {
	Path      []PathElement
	Display   []ClaimDisplay
	SD        SDPolicy
	Mandatory bool
	SVGID     string
}

type ClaimDisplay struct {
	Lang        string `json:"lang"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// ClaimPath converts c.Path to a claimpath.Path usable with
// claimpath.Select/recreate.ProvenanceMap.
func (c Claim) ClaimPath() claimpath.Path {
	p := claimpath.New()
	for _, e := range c.Path {
		switch {
		case e.AllElements:
			p = p.Append(claimpath.AllArrayElements)
		case e.IsIndex:
			p = p.Append(claimpath.ArrayElementAt(e.Index))
		default:
			p = p.Append(claimpath.Claim(e.Name))
		}
	}
	return p
}

// effectiveSD defaults an empty SD to SDAllowed per §9.4.
func (c Claim) effectiveSD() SDPolicy {
	if c.SD == "" {
		return SDAllowed
	}
	return c.SD
}

// SchemaValidator is the narrow C10 boundary VCTM.ValidateSchema uses to
// check a recreated claim tree against SchemaURL's JSON Schema document --
// satisfied by adapter.JSONSchemaValidator (github.com/kaptinlin/jsonschema)
// without this package importing adapter, the same narrow-interface pattern
// verifier.SignatureVerifier uses for C10.
type SchemaValidator interface {
	Validate(schemaJSON []byte, instance any) error
}

// ValidateSchema checks instance (typically a recreate.Result.Tree) against
// v's declared JSON Schema. schemaJSON is the document fetched from
// v.SchemaURL by a TypeMetadataFetcher -- fetching it is deliberately out of
// core scope, so the caller supplies the bytes. A VCTM with no SchemaURL has
// nothing to check and returns nil.
func (v *VCTM) ValidateSchema(instance any, schemaJSON []byte, validator SchemaValidator) error {
	if v.SchemaURL == "" {
		return nil
	}
	if err := validator.Validate(schemaJSON, instance); err != nil {
		return fmt.Errorf("vctm: %s: %w", v.VCT, err)
	}
	return nil
}

// Violation reports one claim whose disclosability in an issued payload
// contradicts its VCTM policy.
type Violation struct {
	Path   claimpath.Path
	Policy SDPolicy
	Reason string
}

func (v Violation) Error() string {
	return fmt.Sprintf("vctm: claim %q violates sd policy %q: %s", v.Path, v.Policy, v.Reason)
}

// Validate selects each declared claim's path in tree (typically a
// recreate.Result.Tree) with claimpath.Select and, using hasDisclosures to
// learn whether that path needs any disclosure, checks it against v's
// per-claim sd rules: an "always" claim must have at least one
// disclosure backing it, a "never" claim must have none, and a "mandatory"
// claim must be present at all (disclosed or not).
func (v *VCTM) Validate(tree any, hasDisclosures func(claimpath.Path) bool) []Violation {
	var violations []Violation
	for _, claim := range v.Claims {
		path := claim.ClaimPath()
		matches := claimpath.Select(tree, path)
		policy := claim.effectiveSD()

		if claim.Mandatory && len(matches) == 0 {
			violations = append(violations, Violation{Path: path, Policy: policy, Reason: "mandatory claim is absent"})
			continue
		}
		if len(matches) == 0 {
			continue
		}

		disclosed := hasDisclosures(path)
		switch policy {
		case SDAlways:
			if !disclosed {
				violations = append(violations, Violation{Path: path, Policy: policy, Reason: "claim must be selectively disclosable but was issued plain"})
			}
		case SDNever:
			if disclosed {
				violations = append(violations, Violation{Path: path, Policy: policy, Reason: "claim must not be selectively disclosable but was issued as a disclosure"})
			}
		}
	}
	return violations
}
