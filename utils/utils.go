// Package utils provides reflective helpers for working with caller-defined row
// types: looking up a field by name, enumerating a record's own fields, and
// decoding generic documents into structs.
package utils

import (
	"encoding/json"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"
	"sync"
)

// Field is a single named value of a record.
type Field struct {
	Name  string
	Value any
}

// FieldValue looks up a field of record by name.
//
// Supported records are maps keyed by strings and structs, or pointers to
// either. Struct fields are visible under the same rules encoding/json uses,
// including fields promoted from embedded structs, and are matched by their
// `json` name first and then by their Go name. A field behind a nil embedded
// pointer does not exist. The boolean result reports whether the field exists.
func FieldValue(record any, name string) (any, bool) {
	if doc, ok := record.(map[string]any); ok {
		v, found := doc[name]
		return v, found
	}

	val := indirect(reflect.ValueOf(record))
	if !val.IsValid() {
		return nil, false
	}

	switch val.Kind() {
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil, false
		}
		v := val.MapIndex(reflect.ValueOf(name).Convert(val.Type().Key()))
		if !v.IsValid() {
			return nil, false
		}
		return v.Interface(), true
	case reflect.Struct:
		fields := cachedFields(val.Type())
		for _, f := range fields {
			if f.name == name {
				return fieldByIndex(val, f.index)
			}
		}
		for _, f := range fields {
			if f.goName == name {
				return fieldByIndex(val, f.index)
			}
		}
	}
	return nil, false
}

// FieldValues enumerates the own fields of record. Map entries are returned in
// key order so that the result is deterministic; struct fields keep their
// declaration order, with promoted fields in place of the embedded struct.
// Anything that is not a map or struct has no fields.
func FieldValues(record any) []Field {
	if doc, ok := record.(map[string]any); ok {
		keys := make([]string, 0, len(doc))
		for k := range doc {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = Field{Name: k, Value: doc[k]}
		}
		return fields
	}

	val := indirect(reflect.ValueOf(record))
	if !val.IsValid() {
		return nil
	}

	switch val.Kind() {
	case reflect.Map:
		if val.Type().Key().Kind() != reflect.String {
			return nil
		}
		keys := val.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		fields := make([]Field, len(keys))
		for i, k := range keys {
			fields[i] = Field{Name: k.String(), Value: val.MapIndex(k).Interface()}
		}
		return fields
	case reflect.Struct:
		visible := cachedFields(val.Type())
		fields := make([]Field, 0, len(visible))
		for _, f := range visible {
			if v, ok := fieldByIndex(val, f.index); ok {
				fields = append(fields, Field{Name: f.name, Value: v})
			}
		}
		return fields
	}
	return nil
}

// IsNil reports whether v is nil or a nil pointer, map, slice or interface.
func IsNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

func indirect(val reflect.Value) reflect.Value {
	for val.IsValid() && (val.Kind() == reflect.Ptr || val.Kind() == reflect.Interface) {
		if val.IsNil() {
			return reflect.Value{}
		}
		val = val.Elem()
	}
	return val
}

// structField is a struct field visible to encoding/json.
type structField struct {
	name   string
	goName string
	index  []int
	tagged bool
}

var fieldCache sync.Map // map[reflect.Type][]structField

func cachedFields(typ reflect.Type) []structField {
	if f, ok := fieldCache.Load(typ); ok {
		return f.([]structField)
	}
	f, _ := fieldCache.LoadOrStore(typ, typeFields(typ))
	return f.([]structField)
}

// typeFields lists the fields of typ in index order. When several fields share
// a name the shallowest wins, then the only tagged one at that depth; if that
// leaves more than one, none is visible.
func typeFields(typ reflect.Type) []structField {
	var all []structField
	collectFields(typ, nil, map[reflect.Type]bool{typ: true}, &all)

	byName := make(map[string][]int)
	for i, f := range all {
		byName[f.name] = append(byName[f.name], i)
	}

	fields := make([]structField, 0, len(all))
	for i, f := range all {
		if dominantField(all, byName[f.name]) == i {
			fields = append(fields, f)
		}
	}
	return fields
}

func dominantField(all []structField, candidates []int) int {
	depth := len(all[candidates[0]].index)
	for _, c := range candidates[1:] {
		depth = min(depth, len(all[c].index))
	}

	winner, tagged, count := -1, -1, 0
	for _, c := range candidates {
		if len(all[c].index) != depth {
			continue
		}
		count++
		winner = c
		if all[c].tagged {
			if tagged >= 0 {
				return -1
			}
			tagged = c
		}
	}
	if count == 1 {
		return winner
	}
	return tagged
}

func collectFields(typ reflect.Type, index []int, seen map[reflect.Type]bool, out *[]structField) {
	for i := 0; i < typ.NumField(); i++ {
		sf := typ.Field(i)
		tag := sf.Tag.Get("json")
		if tag == "-" {
			continue
		}
		tagName, _, _ := strings.Cut(tag, ",")
		path := append(slices.Clone(index), i)

		if sf.Anonymous {
			ft := sf.Type
			if ft.Kind() == reflect.Ptr {
				ft = ft.Elem()
			}
			if tagName == "" && ft.Kind() == reflect.Struct {
				if !seen[ft] {
					seen[ft] = true
					collectFields(ft, path, seen, out)
					delete(seen, ft)
				}
				continue
			}
		}
		if !sf.IsExported() {
			continue
		}

		name := tagName
		if name == "" {
			name = sf.Name
		}
		*out = append(*out, structField{name: name, goName: sf.Name, index: path, tagged: tagName != ""})
	}
}

// fieldByIndex walks index through embedded structs. It reports false when an
// embedded pointer on the way is nil.
func fieldByIndex(val reflect.Value, index []int) (any, bool) {
	for i, x := range index {
		if i > 0 && val.Kind() == reflect.Ptr {
			if val.IsNil() {
				return nil, false
			}
			val = val.Elem()
		}
		val = val.Field(x)
	}
	return val.Interface(), true
}

// MapToStruct is a generic function that converts a `map[string]any` into
// a new instance of the specified generic struct type `T`.
//
// The conversion round-trips through JSON, so `json` tags on T control which
// keys populate which fields.
//
// Example:
//
//	type UserProfile struct {
//		ID   string `json:"id"`
//		Name string `json:"name"`
//	}
//	user, err := MapToStruct[UserProfile](map[string]any{"id": "user-456", "name": "Jane Doe"})
func MapToStruct[T any](input map[string]any) (T, error) {
	var zero T

	if input == nil {
		return zero, fmt.Errorf("MapToStruct: input map cannot be nil")
	}

	// T must be a struct or a pointer to one.
	typ := reflect.TypeOf(zero)
	if typ.Kind() == reflect.Ptr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return zero, fmt.Errorf("MapToStruct: generic type T must be a struct type (or pointer to struct), got %s", typ.Kind())
	}

	jsonBytes, err := json.Marshal(input)
	if err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to marshal input map to JSON: %w", err)
	}

	var result T
	if err := json.Unmarshal(jsonBytes, &result); err != nil {
		return zero, fmt.Errorf("MapToStruct: failed to unmarshal JSON to target struct: %w", err)
	}

	return result, nil
}
