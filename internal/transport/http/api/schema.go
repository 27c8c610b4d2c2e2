package apihttp

import (
	"encoding/json"
	"strings"

	"metabohunter/internal/catalog"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

var identifyRequestSchema = map[string]any{
	"type":     "object",
	"required": []any{"shifts", "intensities"},
	"properties": map[string]any{
		"shifts":      map[string]any{"type": "array"},
		"intensities": map[string]any{"type": "array"},
		"parameters":  parameterOverridesSchema(0),
	},
}

var settingsPatchSchema = parameterOverridesSchema(1)

// parameterOverridesSchema only checks names and JSON types; value sets are
// checked by the catalog so both paths report the same error.
func parameterOverridesSchema(minProperties int) map[string]any {
	props := make(map[string]any)
	for _, dim := range catalog.Dimensions() {
		props[string(dim)] = map[string]any{"type": []any{"string", "number"}}
	}
	return map[string]any{
		"type":                 "object",
		"properties":           props,
		"additionalProperties": false,
		"minProperties":        minProperties,
	}
}

func compileSchema(name string, data map[string]any) (*jsonschema.Schema, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, strings.NewReader(string(raw))); err != nil {
		return nil, err
	}
	return compiler.Compile(name)
}
