package toolmanager

import (
	"fmt"
	"math"
	"slices"
	"sort"

	"github.com/Cyclone1070/aiagent/internal/tool"
	"github.com/mitchellh/mapstructure"
)

// validateArgs checks args against the declared parameter schema: required
// fields are present, every field is declared, and declared types match.
// A nil value counts as absent.
func validateArgs(schema *tool.Schema, args map[string]any) error {
	var props map[string]*tool.Schema
	var required []string
	if schema != nil {
		props = schema.Properties
		required = schema.Required
	}

	for _, name := range required {
		if v, ok := args[name]; !ok || v == nil {
			return fmt.Errorf("missing required argument %q", name)
		}
	}

	names := make([]string, 0, len(args))
	for name := range args {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		prop, ok := props[name]
		if !ok {
			return fmt.Errorf("unexpected argument %q", name)
		}
		if args[name] == nil {
			continue
		}
		if err := checkType(prop, args[name]); err != nil {
			return fmt.Errorf("argument %q %w", name, err)
		}
	}
	return nil
}

// checkType reports whether v has the JSON type declared by s.
func checkType(s *tool.Schema, v any) error {
	if s == nil {
		return nil
	}
	switch s.Type {
	case tool.TypeString:
		str, ok := v.(string)
		if !ok {
			return typeMismatch(s.Type, v)
		}
		if len(s.Enum) > 0 && !slices.Contains(s.Enum, str) {
			return fmt.Errorf("must be one of %v", s.Enum)
		}
	case tool.TypeBoolean:
		if _, ok := v.(bool); !ok {
			return typeMismatch(s.Type, v)
		}
	case tool.TypeNumber:
		if _, ok := toFloat(v); !ok {
			return typeMismatch(s.Type, v)
		}
	case tool.TypeInteger:
		f, ok := toFloat(v)
		if !ok || f != math.Trunc(f) {
			return typeMismatch(s.Type, v)
		}
	case tool.TypeArray:
		switch items := v.(type) {
		case []any:
			for i, item := range items {
				if err := checkType(s.Items, item); err != nil {
					return fmt.Errorf("item %d %w", i, err)
				}
			}
		case []string:
			if s.Items != nil && s.Items.Type != tool.TypeString {
				return typeMismatch(s.Type, v)
			}
		default:
			return typeMismatch(s.Type, v)
		}
	case tool.TypeObject:
		obj, ok := v.(map[string]any)
		if !ok {
			return typeMismatch(s.Type, v)
		}
		if len(s.Properties) > 0 {
			return validateArgs(s, obj)
		}
	}
	return nil
}

func typeMismatch(want tool.Type, v any) error {
	return fmt.Errorf("must be of type %s, got %T", want, v)
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// decodeArgs decodes args into the tool's request struct. Unknown keys and
// type coercion are both rejected.
func decodeArgs(args map[string]any, req any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused:      true,
		WeaklyTypedInput: false,
		TagName:          "mapstructure",
		Result:           req,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(args)
}
