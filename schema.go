package glean

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"google.golang.org/genai"
)

const gleanTag = "glean"

// fieldSpec describes one declared field of a record shape.
type fieldSpec struct {
	name     string       // json key
	optional bool         // required unless tagged glean:"optional" or a pointer
	kind     reflect.Kind // normalized scalar kind, Struct, or Slice
	elemKind reflect.Kind // element kind for slice fields
	object   *objectSpec  // nested shape for Struct and Slice-of-struct fields
}

type objectSpec struct {
	typ    reflect.Type
	fields []fieldSpec
}

// Schema pairs an extraction purpose with a record shape: the response
// constraint sent to the generation collaborator and the validation plan
// applied to the payload that comes back. Construction is the only place a
// schema can fail; a malformed declaration is a programmer error surfaced
// before any request is issued.
type Schema struct {
	purpose    string
	list       bool // true for array-of-record responses
	elem       reflect.Type
	object     *objectSpec
	constraint *genai.Schema
}

// Purpose returns the registered purpose name.
func (s *Schema) Purpose() string { return s.purpose }

// Constraint returns the genai response schema sent with requests.
func (s *Schema) Constraint() *genai.Schema { return s.constraint }

// SchemaOf declares an array-of-T record shape for the given purpose, the
// list-of-records form used by most extractions.
func SchemaOf[T any](purpose string) (*Schema, error) {
	return schemaOf[T](purpose, true)
}

// SingleSchemaOf declares a single-object record shape for the given
// purpose. The decoded result is still a sequence, of length one.
func SingleSchemaOf[T any](purpose string) (*Schema, error) {
	return schemaOf[T](purpose, false)
}

// MustSchemaOf is SchemaOf that panics on a malformed declaration.
func MustSchemaOf[T any](purpose string) *Schema {
	s, err := SchemaOf[T](purpose)
	if err != nil {
		panic(err)
	}
	return s
}

// MustSingleSchemaOf is SingleSchemaOf that panics on a malformed declaration.
func MustSingleSchemaOf[T any](purpose string) *Schema {
	s, err := SingleSchemaOf[T](purpose)
	if err != nil {
		panic(err)
	}
	return s
}

func schemaOf[T any](purpose string, list bool) (*Schema, error) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil || rt.Kind() != reflect.Struct {
		return nil, fmt.Errorf("schema %q: record type must be a struct", purpose)
	}
	obj, objSchema, err := objectSpecOf(rt)
	if err != nil {
		return nil, fmt.Errorf("schema %q: %w", purpose, err)
	}
	constraint := objSchema
	if list {
		constraint = &genai.Schema{Type: genai.TypeArray, Items: objSchema}
	}
	return &Schema{
		purpose:    purpose,
		list:       list,
		elem:       rt,
		object:     obj,
		constraint: constraint,
	}, nil
}

func objectSpecOf(rt reflect.Type) (*objectSpec, *genai.Schema, error) {
	obj := &objectSpec{typ: rt}
	props := map[string]*genai.Schema{}
	var required []string

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if f.Anonymous || !f.IsExported() {
			continue
		}
		jsonKey := strings.Split(f.Tag.Get("json"), ",")[0]
		if jsonKey == "-" {
			continue
		}
		if jsonKey == "" {
			jsonKey = f.Name
		}

		ft := f.Type
		optional := strings.Contains(f.Tag.Get(gleanTag), "optional")
		if ft.Kind() == reflect.Pointer {
			optional = true
			ft = ft.Elem()
		}

		spec := fieldSpec{name: jsonKey, optional: optional}
		var prop *genai.Schema
		switch ft.Kind() {
		case reflect.String:
			spec.kind = reflect.String
			prop = &genai.Schema{Type: genai.TypeString}
		case reflect.Bool:
			spec.kind = reflect.Bool
			prop = &genai.Schema{Type: genai.TypeBoolean}
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			spec.kind = reflect.Int64
			prop = &genai.Schema{Type: genai.TypeInteger}
		case reflect.Float32, reflect.Float64:
			spec.kind = reflect.Float64
			prop = &genai.Schema{Type: genai.TypeNumber}
		case reflect.Struct:
			nested, nestedSchema, err := objectSpecOf(ft)
			if err != nil {
				return nil, nil, err
			}
			spec.kind = reflect.Struct
			spec.object = nested
			prop = nestedSchema
		case reflect.Slice:
			et := ft.Elem()
			switch et.Kind() {
			case reflect.String:
				spec.kind = reflect.Slice
				spec.elemKind = reflect.String
				prop = &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
			case reflect.Struct:
				nested, nestedSchema, err := objectSpecOf(et)
				if err != nil {
					return nil, nil, err
				}
				spec.kind = reflect.Slice
				spec.elemKind = reflect.Struct
				spec.object = nested
				prop = &genai.Schema{Type: genai.TypeArray, Items: nestedSchema}
			default:
				return nil, nil, fmt.Errorf("field %q: unsupported slice element kind %s", jsonKey, et.Kind())
			}
		default:
			return nil, nil, fmt.Errorf("field %q: unsupported kind %s", jsonKey, ft.Kind())
		}

		obj.fields = append(obj.fields, spec)
		props[jsonKey] = prop
		if !optional {
			required = append(required, jsonKey)
		}
	}

	return obj, &genai.Schema{Type: genai.TypeObject, Properties: props, Required: required}, nil
}

// decode validates raw against the declared shape and parses it into a
// typed record slice. Validation is all-or-nothing: the first structural
// mismatch rejects the whole batch.
func (s *Schema) decode(raw []byte) (any, int, error) {
	if s.list {
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return nil, 0, &SchemaViolationError{Purpose: s.purpose, Cause: fmt.Errorf("payload is not a JSON array: %w", err)}
		}
		for _, elem := range elems {
			if err := s.validateObject(s.object, elem); err != nil {
				return nil, 0, err
			}
		}
		slicePtr := reflect.New(reflect.SliceOf(s.elem))
		if err := json.Unmarshal(raw, slicePtr.Interface()); err != nil {
			return nil, 0, &SchemaViolationError{Purpose: s.purpose, Cause: err}
		}
		return slicePtr.Elem().Interface(), len(elems), nil
	}

	if err := s.validateObject(s.object, raw); err != nil {
		return nil, 0, err
	}
	rec := reflect.New(s.elem)
	if err := json.Unmarshal(raw, rec.Interface()); err != nil {
		return nil, 0, &SchemaViolationError{Purpose: s.purpose, Cause: err}
	}
	out := reflect.MakeSlice(reflect.SliceOf(s.elem), 1, 1)
	out.Index(0).Set(rec.Elem())
	return out.Interface(), 1, nil
}

func (s *Schema) validateObject(obj *objectSpec, raw json.RawMessage) error {
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return &SchemaViolationError{Purpose: s.purpose, Cause: fmt.Errorf("record is not a JSON object: %w", err)}
	}

	for _, f := range obj.fields {
		val, ok := m[f.name]
		if !ok || isJSONNull(val) {
			if f.optional {
				continue
			}
			return &SchemaViolationError{Purpose: s.purpose, Field: f.name, Cause: fmt.Errorf("required field missing")}
		}
		if err := s.validateValue(f, val); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) validateValue(f fieldSpec, val json.RawMessage) error {
	var err error
	switch f.kind {
	case reflect.String:
		var v string
		err = json.Unmarshal(val, &v)
	case reflect.Bool:
		var v bool
		err = json.Unmarshal(val, &v)
	case reflect.Int64:
		var v int64
		err = json.Unmarshal(val, &v)
	case reflect.Float64:
		var v float64
		err = json.Unmarshal(val, &v)
	case reflect.Struct:
		return s.validateObject(f.object, val)
	case reflect.Slice:
		var elems []json.RawMessage
		if err = json.Unmarshal(val, &elems); err == nil {
			for _, elem := range elems {
				if f.elemKind == reflect.Struct {
					if nestedErr := s.validateObject(f.object, elem); nestedErr != nil {
						return nestedErr
					}
					continue
				}
				var v string
				if err = json.Unmarshal(elem, &v); err != nil {
					break
				}
			}
		}
	}
	if err != nil {
		return &SchemaViolationError{Purpose: s.purpose, Field: f.name, Cause: err}
	}
	return nil
}

func isJSONNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
