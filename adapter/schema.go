package adapter

import (
	"fmt"

	"github.com/kaptinlin/jsonschema"
)

// SchemaValidator is the C10 JsonSchemaValidator adapter contract (spec
// §4.9): used only by the optional SD-JWT-VC type-metadata layer, never on
// the core issuance/verification path.
type SchemaValidator interface {
	Validate(schemaJSON []byte, instance any) error
}

// JSONSchemaValidator implements SchemaValidator over
// github.com/kaptinlin/jsonschema, compiling schemaJSON fresh on every call
// (the optional VCTM layer validates infrequently enough that this is not
// a hot path; callers validating the same schema repeatedly should cache
// the compiled schema themselves).
type JSONSchemaValidator struct{}

func (JSONSchemaValidator) Validate(schemaJSON []byte, instance any) error {
	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile(schemaJSON)
	if err != nil {
		return fmt.Errorf("sdjwt: compiling json schema: %w", err)
	}
	result := schema.Validate(instance)
	if !result.IsValid() {
		return fmt.Errorf("sdjwt: schema validation failed: %v", result.Errors)
	}
	return nil
}

// TypeMetadataFetcher is the C10 TypeMetadataFetcher adapter contract:
// resolves a vct (Verifiable Credential Type) identifier to its type
// metadata document. HTTP fetching is deliberately out of core scope
// (spec §1); only the interface lives here.
type TypeMetadataFetcher interface {
	Fetch(vct string) ([]byte, error)
}
