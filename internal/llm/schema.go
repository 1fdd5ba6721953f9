package llm

import "github.com/invopop/jsonschema"

// SchemaFor reflects the JSON schema of T from its struct tags. The result
// is inlined (no $ref or $defs) and carries no $schema or $id keys, since
// provider schema dialects reject them.
func SchemaFor[T any]() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		Anonymous:      true,
	}
	var v T
	s := r.Reflect(v)
	s.Version = ""
	return s
}
