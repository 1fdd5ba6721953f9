package llm

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type schemaRow struct {
	Name  string  `json:"name" jsonschema:"enum=a,enum=b"`
	Score float64 `json:"score" jsonschema_description:"points"`
}

func TestSchemaFor_SliceOfStruct(t *testing.T) {
	s := SchemaFor[[]schemaRow]()
	require.NotNil(t, s)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "array", doc["type"])
	assert.NotContains(t, doc, "$schema")
	assert.NotContains(t, doc, "$id")
	assert.NotContains(t, doc, "$defs")

	items := doc["items"].(map[string]any)
	assert.Equal(t, "object", items["type"])
	assert.ElementsMatch(t, []any{"name", "score"}, items["required"])
	assert.Equal(t, false, items["additionalProperties"])

	props := items["properties"].(map[string]any)
	name := props["name"].(map[string]any)
	assert.Equal(t, []any{"a", "b"}, name["enum"])
	score := props["score"].(map[string]any)
	assert.Equal(t, "number", score["type"])
	assert.Equal(t, "points", score["description"])
}
