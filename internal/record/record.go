// Package record converts the plain-data records behind structured comments
// to and from their wire forms.
//
// A record is a Go struct whose fields carry `cty:"name"` tags. Its implied
// cty object type is the schema: JSON payloads must carry exactly those
// attributes, and HCL attribute sets are overlaid on a defaults record before
// being converted to that type.
package record

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/convert"
	"github.com/zclconf/go-cty/cty/gocty"
	ctyjson "github.com/zclconf/go-cty/cty/json"
)

var (
	// ErrMissingAttribute is returned when a required attribute is absent.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrUnknownAttribute is returned for attributes the record does not declare.
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrNotFinite is returned for NaN or infinite numbers, which have no
	// cty or JSON form.
	ErrNotFinite = errors.New("number is not finite")
)

// Source is a decodable origin of a record.
type Source interface {
	// Decode populates rec, a non-nil pointer to a tagged struct. Attributes
	// named in required must be supplied explicitly when the source allows
	// omissions; fields of rec that the source does not set keep their values.
	Decode(rec any, required ...string) error
}

// Type returns the cty object type implied by rec.
func Type(rec any) (cty.Type, error) {
	v := reflect.ValueOf(rec)
	if v.Kind() == reflect.Ptr {
		if v.IsNil() {
			return cty.NilType, fmt.Errorf("record must not be a nil pointer")
		}
		v = v.Elem()
	}
	ty, err := gocty.ImpliedType(v.Interface())
	if err != nil {
		return cty.NilType, fmt.Errorf("unable to infer record type: %w", err)
	}
	if !ty.IsObjectType() {
		return cty.NilType, fmt.Errorf("record must be a struct, got %s", ty.FriendlyName())
	}
	return ty, nil
}

// Value converts rec into a cty object value.
func Value(rec any) (cty.Value, error) {
	ty, err := Type(rec)
	if err != nil {
		return cty.NilVal, err
	}
	v := reflect.ValueOf(rec)
	if v.Kind() == reflect.Ptr {
		v = v.Elem()
	}
	if err := finite(v, nil); err != nil {
		return cty.NilVal, err
	}
	return gocty.ToCtyValue(v.Interface(), ty)
}

// finite rejects NaN and infinities anywhere in v; gocty panics on NaN.
func finite(v reflect.Value, path cty.Path) error {
	switch v.Kind() {
	case reflect.Float32, reflect.Float64:
		if f := v.Float(); math.IsNaN(f) || math.IsInf(f, 0) {
			return fmt.Errorf("%w: %s is %v", ErrNotFinite, pathString(path), f)
		}
	case reflect.Struct:
		t := v.Type()
		for i := 0; i < v.NumField(); i++ {
			name, ok := t.Field(i).Tag.Lookup("cty")
			if !ok {
				continue
			}
			if err := finite(v.Field(i), path.GetAttr(name)); err != nil {
				return err
			}
		}
	case reflect.Slice, reflect.Array:
		for i := 0; i < v.Len(); i++ {
			if err := finite(v.Index(i), path.IndexInt(i)); err != nil {
				return err
			}
		}
	case reflect.Ptr, reflect.Interface:
		if !v.IsNil() {
			return finite(v.Elem(), path)
		}
	}
	return nil
}

// Encode renders rec as a compact JSON object.
func Encode(rec any) (string, error) {
	val, err := Value(rec)
	if err != nil {
		return "", err
	}
	b, err := ctyjson.Marshal(val, val.Type())
	if err != nil {
		return "", fmt.Errorf("failed to marshal record: %w", err)
	}
	return string(b), nil
}

// JSON returns a Source reading a JSON payload. Every attribute of the
// record's type is mandatory and no others are accepted.
func JSON(payload string) Source {
	return jsonSource(payload)
}

type jsonSource string

func (s jsonSource) Decode(rec any, _ ...string) error {
	ty, err := Type(rec)
	if err != nil {
		return err
	}
	val, err := ctyjson.Unmarshal([]byte(s), ty)
	if err != nil {
		return fmt.Errorf("malformed payload: %w", err)
	}
	if err := complete(val, nil); err != nil {
		return err
	}
	return gocty.FromCtyValue(val, rec)
}

// complete rejects object values with null attributes, which is how the JSON
// decoder represents attributes missing from the payload.
func complete(val cty.Value, path cty.Path) error {
	if val.IsNull() {
		return fmt.Errorf("%w: %s", ErrMissingAttribute, pathString(path))
	}
	ty := val.Type()
	if !ty.IsObjectType() {
		return nil
	}
	for _, name := range sortedAttributes(ty) {
		if err := complete(val.GetAttr(name), path.GetAttr(name)); err != nil {
			return err
		}
	}
	return nil
}

// Attributes returns a Source reading already-evaluated attribute values,
// such as the body of an HCL block.
func Attributes(attrs map[string]cty.Value) Source {
	return attributeSource(attrs)
}

type attributeSource map[string]cty.Value

func (s attributeSource) Decode(rec any, required ...string) error {
	ty, err := Type(rec)
	if err != nil {
		return err
	}
	base, err := Value(rec)
	if err != nil {
		return fmt.Errorf("invalid defaults: %w", err)
	}

	merged := base.AsValueMap()
	if merged == nil {
		merged = make(map[string]cty.Value)
	}
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if !ty.HasAttribute(name) {
			return fmt.Errorf("%w %q", ErrUnknownAttribute, name)
		}
		merged[name] = s[name]
	}
	for _, name := range required {
		if _, ok := s[name]; !ok {
			return fmt.Errorf("%w %q", ErrMissingAttribute, name)
		}
	}

	converted, err := convert.Convert(cty.ObjectVal(merged), ty)
	if err != nil {
		return fmt.Errorf("cannot convert attributes: %w", err)
	}
	if !converted.IsWhollyKnown() {
		return fmt.Errorf("attribute values must be known")
	}
	if err := complete(converted, nil); err != nil {
		return err
	}
	return gocty.FromCtyValue(converted, rec)
}

func sortedAttributes(ty cty.Type) []string {
	names := make([]string, 0, len(ty.AttributeTypes()))
	for name := range ty.AttributeTypes() {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func pathString(path cty.Path) string {
	if len(path) == 0 {
		return "record"
	}
	out := ""
	for _, step := range path {
		if attr, ok := step.(cty.GetAttrStep); ok {
			if out != "" {
				out += "."
			}
			out += attr.Name
		}
	}
	return fmt.Sprintf("%q", out)
}
