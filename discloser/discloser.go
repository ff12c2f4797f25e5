// Package discloser implements the disclosable spec tree (spec C3, §3): the
// recursive sum type fed into issuance.
//
// spec.md's own REDESIGN FLAGS call for replacing an inheritance/sealed
// class hierarchy with "tagged sum variants {LeafAlways, LeafSd,
// ObjectAlways, ObjectSd, ArrayAlways, ArraySd}", visited by pattern match.
// That is exactly what this package is: a sealed Node interface with six
// concrete variants, grounded structurally on dc4eu-vc/pkg/sdjwt/
// instruction.go's ParentInstructionV2/ChildInstructionV2/
// RecursiveInstructionV2/ChildArrayInstructionV2 (a looser, interface{}-typed
// version of the same idea) but reworked into a closed, type-safe sum.
package discloser

// Node is the sealed sum type of the disclosable spec tree. The only
// implementations are the six variants below; isNode is unexported so no
// other package can add a seventh.
type Node interface {
	isNode()
}

// LeafAlways is a plain JSON scalar/compound value that always appears
// directly in the payload.
type LeafAlways struct {
	Value any
}

// LeafSd is a disclosable leaf: it is hidden behind a digest and revealed
// as a standalone disclosure.
type LeafSd struct {
	Value any
}

// Field is one named child of an object node, in declaration order --
// issuance's left-to-right walk (spec §5, "Ordering guarantees") depends
// on this order being preserved, so Fields is a slice, never a map.
type Field struct {
	Name string
	Node Node
}

// ObjectAlways is a plain object: its fields merge directly into the
// enclosing payload object under their own names.
type ObjectAlways struct {
	Fields        []Field
	MinDigestHint int // decoys padded up to this many _sd entries
}

// ObjectSd is a recursive-selective-disclosure object: the whole subtree
// collapses into a single digest in its parent, while its own fields are
// still expanded (and may themselves be disclosable) inside the wrapped
// disclosure value.
type ObjectSd struct {
	Fields        []Field
	MinDigestHint int
}

// ArrayAlways is a plain array: each element is emitted in place (itself
// possibly a disclosable leaf or a nested object/array spec).
type ArrayAlways struct {
	Elements      []Node
	MinDigestHint int
}

// ArraySd is a recursive-selective-disclosure array: the whole array
// collapses into a single digest in its parent.
type ArraySd struct {
	Elements      []Node
	MinDigestHint int
}

func (LeafAlways) isNode()   {}
func (LeafSd) isNode()       {}
func (ObjectAlways) isNode() {}
func (ObjectSd) isNode()     {}
func (ArrayAlways) isNode()  {}
func (ArraySd) isNode()      {}

// --- plain builder helpers (ergonomics only, not part of the core contract) ---

// Plain wraps a scalar or already-built compound value as an always-visible leaf.
func Plain(value any) Node { return LeafAlways{Value: value} }

// Disclosable wraps a scalar value as a disclosable leaf.
func Disclosable(value any) Node { return LeafSd{Value: value} }

// Obj builds a plain object node from name/Node fields.
func Obj(fields ...Field) Node { return ObjectAlways{Fields: fields} }

// SdObj builds a recursive-selective-disclosure object node.
func SdObj(fields ...Field) Node { return ObjectSd{Fields: fields} }

// Arr builds a plain array node.
func Arr(elements ...Node) Node { return ArrayAlways{Elements: elements} }

// SdArr builds a recursive-selective-disclosure array node.
func SdArr(elements ...Node) Node { return ArraySd{Elements: elements} }

// F is shorthand for constructing a Field.
func F(name string, n Node) Field { return Field{Name: name, Node: n} }

// WithMinDigests returns a copy of n with its decoy-padding hint set. n must
// be one of the four compound variants; LeafAlways/LeafSd are returned
// unchanged since leaves carry no _sd array of their own.
func WithMinDigests(n Node, hint int) Node {
	switch v := n.(type) {
	case ObjectAlways:
		v.MinDigestHint = hint
		return v
	case ObjectSd:
		v.MinDigestHint = hint
		return v
	case ArrayAlways:
		v.MinDigestHint = hint
		return v
	case ArraySd:
		v.MinDigestHint = hint
		return v
	default:
		return n
	}
}
