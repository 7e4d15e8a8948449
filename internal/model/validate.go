package model

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed analysis.schema.json
var analysisSchema string

// ValidateMap validates a decoded AI response against the analysis schema.
// The schema ships inside the binary so validation works regardless of the
// working directory.
func ValidateMap(m map[string]interface{}) error {
	schemaLoader := gojsonschema.NewStringLoader(analysisSchema)
	docLoader := gojsonschema.NewGoLoader(m)

	res, err := gojsonschema.Validate(schemaLoader, docLoader)
	if err != nil {
		return err
	}
	if res.Valid() {
		return nil
	}
	// collect errors
	msgs := ""
	for _, e := range res.Errors() {
		msgs += fmt.Sprintf("%s; ", e.String())
	}
	return fmt.Errorf("schema validation failed: %s", msgs)
}
