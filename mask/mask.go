// Package mask builds loggable views of invocation events with sensitive values hidden.
//
// Struct fields tagged `mask:"true"` and map entries whose key is a well-known
// credential header (Authorization, Cookie, X-Api-Key, ...) are replaced with
// a placeholder. Field order follows the struct declaration.
package mask

import (
	"encoding"
	"encoding/json"
	"reflect"
	"slices"
	"strings"

	"github.com/samber/lo"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

const (
	tagName = "mask"

	// Placeholder replaces every masked non-zero value.
	Placeholder = "***"

	maxDepth = 16
)

//nolint:gochecknoglobals // static lookup of lower-cased credential keys
var sensitiveKeys = lo.Keyify([]string{
	"authorization",
	"proxy-authorization",
	"cookie",
	"set-cookie",
	"x-api-key",
	"x-amz-security-token",
	"password",
	"token",
	"secret",
})

// Event returns a view of v suitable for logging.
// Structs become ordered maps, maps and slices are walked recursively and
// everything else is returned as is.
func Event(v any) any {
	if v == nil {
		return nil
	}
	return view(reflect.ValueOf(v), 0)
}

// IsSensitiveKey reports whether a map key names a credential.
func IsSensitiveKey(key string) bool {
	_, ok := sensitiveKeys[strings.ToLower(key)]
	return ok
}

func view(val reflect.Value, depth int) any {
	if !val.IsValid() {
		return nil
	}
	if depth > maxDepth {
		return "[max depth]"
	}

	switch val.Kind() { //nolint:exhaustive // remaining kinds are returned as is
	case reflect.Pointer, reflect.Interface:
		if val.IsNil() {
			return nil
		}
		return view(val.Elem(), depth+1)

	case reflect.Struct:
		if marshalsItself(val) {
			return safeInterface(val)
		}
		return structView(val, depth)

	case reflect.Map:
		if val.IsNil() || val.Type().Key().Kind() != reflect.String {
			return safeInterface(val)
		}
		return mapView(val, depth)

	case reflect.Slice, reflect.Array:
		if val.Kind() == reflect.Slice && val.IsNil() {
			return nil
		}
		if val.Type().Elem().Kind() == reflect.Uint8 {
			return safeInterface(val)
		}
		out := make([]any, val.Len())
		for i := range val.Len() {
			out[i] = view(val.Index(i), depth+1)
		}
		return out

	default:
		return safeInterface(val)
	}
}

func structView(val reflect.Value, depth int) *orderedmap.OrderedMap[string, any] {
	om := orderedmap.New[string, any]()
	typ := val.Type()

	for i := range val.NumField() {
		fieldType := typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}

		name, skip := extractFieldName(fieldType)
		if skip {
			continue
		}

		field := val.Field(i)
		if strings.EqualFold(fieldType.Tag.Get(tagName), "true") {
			om.Set(name, hide(field))
			continue
		}
		om.Set(name, view(field, depth+1))
	}

	return om
}

func mapView(val reflect.Value, depth int) *orderedmap.OrderedMap[string, any] {
	keys := val.MapKeys()
	names := make([]string, 0, len(keys))
	byName := make(map[string]reflect.Value, len(keys))
	for _, k := range keys {
		names = append(names, k.String())
		byName[k.String()] = k
	}
	slices.Sort(names)

	om := orderedmap.New[string, any]()
	for _, name := range names {
		v := val.MapIndex(byName[name])
		if IsSensitiveKey(name) {
			om.Set(name, hide(v))
			continue
		}
		om.Set(name, view(v, depth+1))
	}
	return om
}

// hide masks non-zero values and keeps zero values visible, so an absent
// credential stays distinguishable from a present one.
func hide(val reflect.Value) any {
	for val.Kind() == reflect.Pointer || val.Kind() == reflect.Interface {
		if val.IsNil() {
			return nil
		}
		val = val.Elem()
	}
	if val.IsZero() {
		return safeInterface(val)
	}
	return Placeholder
}

// marshalsItself reports whether the value controls its own encoding, e.g. time.Time.
func marshalsItself(val reflect.Value) bool {
	if !val.CanInterface() {
		return false
	}
	switch val.Interface().(type) {
	case json.Marshaler, encoding.TextMarshaler:
		return true
	default:
		return false
	}
}

func safeInterface(val reflect.Value) any {
	if !val.CanInterface() {
		return nil
	}
	return val.Interface()
}

// extractFieldName extracts the field name from struct tags with priority:
// json tag, yaml tag, struct field name.
// Returns (fieldName, shouldSkip) where shouldSkip=true means field should be omitted.
func extractFieldName(field reflect.StructField) (string, bool) {
	for _, tag := range []string{"json", "yaml"} {
		value, ok := field.Tag.Lookup(tag)
		if !ok {
			continue
		}
		if value == "-" {
			return "", true
		}
		if idx := strings.Index(value, ","); idx != -1 {
			value = value[:idx]
		}
		if value != "" {
			return value, false
		}
	}
	return field.Name, false
}
