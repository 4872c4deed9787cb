package schemaforms

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// Operation is an OpenAPI operation with a form-shaped request body.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	// MediaType is the request body content type the schema came from.
	MediaType string
	Schema    *openapi3.Schema
}

// bodyMediaTypes are tried in order when picking the request schema.
var bodyMediaTypes = []string{
	"application/x-www-form-urlencoded",
	"multipart/form-data",
	"application/json",
}

// ParseOperations loads an OpenAPI 3 document and returns every operation
// with a request body schema, keyed by operationId. Operations without an id
// are keyed "<method>:<path>" in lower case method.
func ParseOperations(ctx context.Context, data []byte) (map[string]Operation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, errors.New("schemaforms: document payload is empty")
	}

	loader := openapi3.NewLoader()
	loader.Context = ctx
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("schemaforms: load document: %w", err)
	}
	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, errors.New("schemaforms: document does not contain any paths")
	}

	operations := make(map[string]Operation)
	for path, item := range doc.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			if op == nil {
				continue
			}
			mediaType, schema := requestSchema(op.RequestBody)
			if schema == nil {
				continue
			}
			id := op.OperationID
			if id == "" {
				id = strings.ToLower(method) + ":" + path
			}
			operations[id] = Operation{
				ID:          id,
				Method:      strings.ToUpper(method),
				Path:        path,
				Summary:     op.Summary,
				Description: op.Description,
				MediaType:   mediaType,
				Schema:      schema,
			}
		}
	}
	if len(operations) == 0 {
		return nil, errors.New("schemaforms: no operations with a request body")
	}
	return operations, nil
}

// OperationIDs returns the keys of ops sorted.
func OperationIDs(ops map[string]Operation) []string {
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func requestSchema(body *openapi3.RequestBodyRef) (string, *openapi3.Schema) {
	if body == nil || body.Value == nil {
		return "", nil
	}
	content := body.Value.Content
	for _, mediaType := range bodyMediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil && mt.Schema.Value != nil {
			return mediaType, mt.Schema.Value
		}
	}
	return "", nil
}
