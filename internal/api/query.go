package api

import (
	"fmt"
	"net/url"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Params are query parameters. Scalars encode as key=value, slices as
// repeated key[]=item and maps as key[sub]=value, nesting as deep as the
// value does. Nil values are omitted.
type Params map[string]any

// Encode serializes the parameters with keys in sorted order.
func (p Params) Encode() string {
	if len(p) == 0 {
		return ""
	}

	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var parts []string
	for _, k := range keys {
		parts = appendParam(parts, k, p[k])
	}
	return strings.Join(parts, "&")
}

func appendParam(parts []string, key string, value any) []string {
	rv, ok := deref(reflect.ValueOf(value))
	if !ok {
		return parts
	}

	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return append(parts, pair(key, formatScalar(rv)))
		}
		for i := 0; i < rv.Len(); i++ {
			elem, ok := deref(rv.Index(i))
			if !ok {
				continue
			}
			parts = append(parts, pair(key+"[]", formatScalar(elem)))
		}
		return parts

	case reflect.Map:
		type entry struct {
			value reflect.Value
			key   string
		}
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			v, ok := deref(iter.Value())
			if !ok {
				continue
			}
			entries = append(entries, entry{key: fmt.Sprint(iter.Key().Interface()), value: v})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		for _, e := range entries {
			parts = appendParam(parts, key+"["+e.key+"]", e.value.Interface())
		}
		return parts

	default:
		return append(parts, pair(key, formatScalar(rv)))
	}
}

// deref unwraps interfaces and pointers, reporting false for nil.
func deref(rv reflect.Value) (reflect.Value, bool) {
	for rv.IsValid() && (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return reflect.Value{}, false
	}
	if (rv.Kind() == reflect.Slice || rv.Kind() == reflect.Map) && rv.IsNil() {
		return reflect.Value{}, false
	}
	return rv, true
}

func formatScalar(rv reflect.Value) string {
	if rv.CanInterface() {
		switch v := rv.Interface().(type) {
		case time.Time:
			return v.Format(time.RFC3339)
		case fmt.Stringer:
			return v.String()
		}
	}

	switch rv.Kind() {
	case reflect.String:
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 32)
	case reflect.Float64:
		return strconv.FormatFloat(rv.Float(), 'f', -1, 64)
	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return string(rv.Bytes())
		}
	}
	return fmt.Sprint(rv.Interface())
}

func pair(key, value string) string {
	return url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// buildURL joins the base URL, path and encoded query.
func (c *Client) buildURL(path string, params Params) string {
	if path != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	u := c.baseURL + path

	query := params.Encode()
	if query == "" {
		return u
	}
	if strings.Contains(u, "?") {
		return u + "&" + query
	}
	return u + "?" + query
}

// optional returns nil for empty strings so they are left out of Params.
func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// optionalInt returns nil for non-positive values.
func optionalInt(n int) any {
	if n <= 0 {
		return nil
	}
	return n
}
