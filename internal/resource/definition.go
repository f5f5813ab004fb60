// Package resource declares the content collections served by the API. Each
// collection is described once by a Definition; a single generic validator,
// repository and handler are driven off that table.
package resource

import (
	"fmt"
	"strings"

	apperrors "github.com/srkbolt25-collab/srkfence-backend/pkg/util"
)

// FieldType enumerates the value types a document field may hold.
type FieldType string

const (
	FieldString      FieldType = "string"
	FieldStringArray FieldType = "stringArray"
	FieldNumber      FieldType = "number"
)

// Field describes one schema field of a collection.
type Field struct {
	Name     string
	Type     FieldType
	Required bool
}

// StatusSpec declares the status enum of a collection and its default.
type StatusSpec struct {
	Values  []string
	Default string
}

// ReferenceGuard protects a record from deletion while documents in another
// collection still reference its key field by value.
type ReferenceGuard struct {
	Collection string
	Field      string
}

// Definition is the declarative schema of one content collection.
type Definition struct {
	Kind       string // URL segment, e.g. "products"
	Collection string // store collection name
	Plural     string // envelope key in list responses
	Singular   string // used in error messages
	Fields     []Field
	Status     StatusSpec
	KeyField   string // field other collections reference, e.g. "name"
	Guard      *ReferenceGuard
}

// serverManaged are body keys the server owns. Clients routinely echo them
// back on PUT; they are stripped rather than rejected.
var serverManaged = map[string]bool{
	"status":    true,
	"id":        true,
	"createdAt": true,
	"updatedAt": true,
}

// ArrayFields returns the names of the array-typed fields.
func (d Definition) ArrayFields() []string {
	var names []string
	for _, f := range d.Fields {
		if f.Type == FieldStringArray {
			names = append(names, f.Name)
		}
	}
	return names
}

// Validate checks body against the schema and returns the normalized document:
// unknown fields are rejected, required fields enforced, array fields default
// to empty slices and status is defaulted then enum-checked.
func (d Definition) Validate(body map[string]any) (map[string]any, error) {
	details := map[string]any{}
	doc := make(map[string]any, len(d.Fields)+1)

	known := make(map[string]Field, len(d.Fields))
	for _, f := range d.Fields {
		known[f.Name] = f
	}

	for name := range body {
		if serverManaged[name] {
			continue
		}
		if _, ok := known[name]; !ok {
			details[name] = "unknown field"
		}
	}

	for _, f := range d.Fields {
		val, present := body[f.Name]
		if !present || val == nil {
			if f.Required {
				details[f.Name] = "required"
				continue
			}
			if f.Type == FieldStringArray {
				doc[f.Name] = []any{}
			}
			continue
		}

		normalized, err := normalizeField(f, val)
		if err != nil {
			details[f.Name] = err.Error()
			continue
		}
		if f.Required && f.Type == FieldString && strings.TrimSpace(normalized.(string)) == "" {
			details[f.Name] = "required"
			continue
		}
		doc[f.Name] = normalized
	}

	status := d.Status.Default
	if raw, present := body["status"]; present && raw != nil {
		s, ok := raw.(string)
		if !ok || !d.Status.Allows(s) {
			details["status"] = fmt.Sprintf("must be one of %s", strings.Join(d.Status.Values, ", "))
		} else {
			status = s
		}
	}
	doc["status"] = status

	if len(details) > 0 {
		return nil, apperrors.NewValidationError("invalid "+d.Singular, details)
	}
	return doc, nil
}

// Allows reports whether s is a declared status value.
func (s StatusSpec) Allows(v string) bool {
	for _, allowed := range s.Values {
		if allowed == v {
			return true
		}
	}
	return false
}

func normalizeField(f Field, val any) (any, error) {
	switch f.Type {
	case FieldString:
		s, ok := val.(string)
		if !ok {
			return nil, fmt.Errorf("must be a string")
		}
		return s, nil
	case FieldNumber:
		switch n := val.(type) {
		case float64:
			return n, nil
		case int:
			return float64(n), nil
		default:
			return nil, fmt.Errorf("must be a number")
		}
	case FieldStringArray:
		items, ok := val.([]any)
		if !ok {
			return nil, fmt.Errorf("must be an array of strings")
		}
		out := make([]any, 0, len(items))
		for _, item := range items {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("must be an array of strings")
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("unsupported field type %q", f.Type)
	}
}

// EnsureArrays fills in empty slices for array fields missing on a stored
// document, so list consumers never see an absent key.
func (d Definition) EnsureArrays(doc map[string]any) map[string]any {
	for _, name := range d.ArrayFields() {
		if _, ok := doc[name]; !ok {
			doc[name] = []any{}
		}
	}
	return doc
}
