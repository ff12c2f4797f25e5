package claimpath

import "github.com/PaesslerAG/jsonpath"

// SelectJSONPath evaluates a JSONPath expression (e.g. "$.address.street",
// "$.nationalities[1]") directly against a reconstructed claim tree. It is
// an alternate, string-based entry point alongside Select/Path for callers
// who already carry JSONPath expressions (e.g. from VCTM claim metadata)
// and would rather not hand-build a Path.
//
// Grounded on github.com/PaesslerAG/jsonpath's documented Get(path, v)
// entry point, declared in dc4eu-vc's go.mod.
func SelectJSONPath(tree any, expr string) (any, error) {
	return jsonpath.Get(expr, tree)
}
