// Package claimpath implements ClaimPath & Select (spec C7, §4.5): the
// uniform addressing language over a reconstructed claim tree, plus
// selection of concrete matches.
//
// Grounded on dc4eu-vc/pkg/sdjwtvc/types.go's Claim.Path []*string (a nil
// path element means "all array elements", the same idea as our
// AllArrayElements) and pkg/sdjwtvc/validation.go's getClaimValue path-walk,
// extended to support array indices end to end -- methods.go's
// processClaimPath explicitly refuses array-element paths
// ("array element selective disclosure requires index information"); that
// gap is filled here since spec.md's ClaimPath requires it.
package claimpath

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind discriminates the three ClaimPath element shapes.
type Kind int

const (
	ClaimKind Kind = iota
	ArrayElementKind
	AllArrayElementsKind
)

// Element is one step of a ClaimPath.
type Element struct {
	Kind  Kind
	Name  string // set when Kind == ClaimKind
	Index int    // set when Kind == ArrayElementKind
}

// Claim builds a named-property path element.
func Claim(name string) Element { return Element{Kind: ClaimKind, Name: name} }

// ArrayElementAt builds a concrete array-index path element.
func ArrayElementAt(index int) Element { return Element{Kind: ArrayElementKind, Index: index} }

// AllArrayElements is the wildcard array element.
var AllArrayElements = Element{Kind: AllArrayElementsKind}

func (e Element) String() string {
	switch e.Kind {
	case ClaimKind:
		return e.Name
	case ArrayElementKind:
		return fmt.Sprintf("[%d]", e.Index)
	default:
		return "[*]"
	}
}

// contains implements the wildcard containment rule: AllArrayElements
// contains any ArrayElement(i) (and itself); every other element only
// contains itself.
func (e Element) contains(other Element) bool {
	if e.Kind == AllArrayElementsKind {
		return other.Kind == ArrayElementKind || other.Kind == AllArrayElementsKind
	}
	return e == other
}

// Path is a non-empty sequence of Elements. The zero value is the empty
// path, used only as an intermediate (root) value during traversal.
type Path []Element

// New builds a Path from elements.
func New(elements ...Element) Path { return append(Path(nil), elements...) }

// Append returns a new Path with element appended; Path values are never
// mutated in place so callers can safely reuse a prefix across branches.
func (p Path) Append(e Element) Path {
	out := make(Path, len(p)+1)
	copy(out, p)
	out[len(p)] = e
	return out
}

// Concat returns a new Path with other appended after p.
func (p Path) Concat(other Path) Path {
	out := make(Path, 0, len(p)+len(other))
	out = append(out, p...)
	out = append(out, other...)
	return out
}

// Head returns p's first element and true, or the zero Element and false
// if p is empty.
func (p Path) Head() (Element, bool) {
	if len(p) == 0 {
		return Element{}, false
	}
	return p[0], true
}

// Tail returns p without its first element.
func (p Path) Tail() Path {
	if len(p) == 0 {
		return nil
	}
	return p[1:]
}

// Parent returns p without its last element.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Contains reports whether p structurally contains other: same length,
// element-wise containment under the wildcard rule.
func (p Path) Contains(other Path) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if !p[i].contains(other[i]) {
			return false
		}
	}
	return true
}

// Matches reports whether p and other have the same length and contain
// each other.
func (p Path) Matches(other Path) bool {
	return p.Contains(other) && other.Contains(p)
}

// String renders a canonical textual form, e.g. "address.street",
// "nationalities[1]", "nationalities[*]". Used as the provenance map key.
func (p Path) String() string {
	var b strings.Builder
	for i, e := range p {
		switch e.Kind {
		case ClaimKind:
			if i > 0 {
				b.WriteByte('.')
			}
			b.WriteString(e.Name)
		default:
			b.WriteString(e.String())
		}
	}
	return b.String()
}

// Match is one concrete hit returned by Select: a fully-indexed path
// (wildcards resolved to the indices they matched) and the value found
// there.
type Match struct {
	Path  Path
	Value any
}

// Select walks tree following path, expanding AllArrayElements to every
// valid index. Matches are returned in ascending index order at each
// wildcard; callers must not otherwise depend on map iteration order,
// which is why tree's object levels are assumed to be map[string]any (Go's
// map has no stable order of its own, but object-key lookups here are
// by-name, never enumerated).
func Select(tree any, path Path) []Match {
	return selectAt(tree, path, nil)
}

func selectAt(value any, path Path, soFar Path) []Match {
	if len(path) == 0 {
		return []Match{{Path: soFar, Value: value}}
	}
	e, rest := path[0], path[1:]
	switch e.Kind {
	case ClaimKind:
		obj, ok := value.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[e.Name]
		if !ok {
			return nil
		}
		return selectAt(v, rest, soFar.Append(e))

	case ArrayElementKind:
		arr, ok := value.([]any)
		if !ok || e.Index < 0 || e.Index >= len(arr) {
			return nil
		}
		return selectAt(arr[e.Index], rest, soFar.Append(e))

	case AllArrayElementsKind:
		arr, ok := value.([]any)
		if !ok {
			return nil
		}
		var out []Match
		indices := make([]int, len(arr))
		for i := range arr {
			indices[i] = i
		}
		sort.Ints(indices)
		for _, i := range indices {
			out = append(out, selectAt(arr[i], rest, soFar.Append(ArrayElementAt(i)))...)
		}
		return out
	}
	return nil
}

// ParseDotted parses a minimal "a.b[2].c[*]" dotted/bracket notation into a
// Path, a convenience alternative to building Elements by hand.
func ParseDotted(expr string) (Path, error) {
	var path Path
	for _, segment := range strings.Split(expr, ".") {
		name := segment
		for {
			open := strings.IndexByte(name, '[')
			if open < 0 {
				if name != "" {
					path = path.Append(Claim(name))
				}
				break
			}
			if open > 0 {
				path = path.Append(Claim(name[:open]))
			}
			close := strings.IndexByte(name[open:], ']')
			if close < 0 {
				return nil, fmt.Errorf("claimpath: unterminated '[' in %q", expr)
			}
			close += open
			inner := name[open+1 : close]
			if inner == "*" {
				path = path.Append(AllArrayElements)
			} else {
				idx, err := strconv.Atoi(inner)
				if err != nil {
					return nil, fmt.Errorf("claimpath: invalid array index %q in %q", inner, expr)
				}
				path = path.Append(ArrayElementAt(idx))
			}
			name = name[close+1:]
		}
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("claimpath: empty path %q", expr)
	}
	return path, nil
}
