// Copyright 2025 The Rivaas Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"

	"rivaas.dev/middleware/pagination"
)

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "https://rivaas.dev/schemas/middleware/pagination/config.json"

var compiledSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err = compiler.AddResource(schemaURL, doc); err != nil {
		return nil, err
	}

	return compiler.Compile(schemaURL)
})

// Schema returns the JSON Schema that configuration trees are checked
// against, for editors and CI linting.
func Schema() []byte {
	return bytes.Clone(schemaJSON)
}

func validateSchema(tree map[string]any) error {
	schema, err := compiledSchema()
	if err != nil {
		return NewError("json-schema", "compile", err)
	}

	if err = schema.Validate(any(tree)); err != nil {
		return NewFieldError("json-schema", instancePath(err), "validate",
			fmt.Errorf("%w: %w", pagination.ErrInvalidConfig, err))
	}

	return nil
}

// instancePath returns the dotted location of the first leaf violation.
func instancePath(err error) string {
	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return ""
	}
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}

	return strings.Join(verr.InstanceLocation, ".")
}
