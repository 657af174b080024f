package schemas_test

import (
	"encoding/json"
	"io/fs"
	"testing"

	"github.com/jonathan/resume-builder/internal/schemas"
	schemafiles "github.com/jonathan/resume-builder/schemas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllSchemaFiles_ValidJSONSchema(t *testing.T) {
	names, err := fs.Glob(schemafiles.Files, "*.schema.json")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{schemafiles.RenderInput, schemafiles.Document}, names)

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			data, err := schemafiles.Files.ReadFile(name)
			require.NoError(t, err)

			var schemaObj map[string]any
			require.NoError(t, json.Unmarshal(data, &schemaObj), "schema file should be valid JSON")
			assert.Equal(t, "http://json-schema.org/draft-07/schema#", schemaObj["$schema"])
			assert.Equal(t, "object", schemaObj["type"])

			// every schema compiles and rejects a non-object
			err = schemas.ValidateBytes(name, []byte(`[]`))
			var validationErr *schemas.ValidationError
			assert.ErrorAs(t, err, &validationErr)
		})
	}
}
