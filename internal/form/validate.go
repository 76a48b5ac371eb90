package form

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// ValidateDefinition checks def and returns a normalized copy: trimmed title
// and labels, cleaned option lists and a minted id for every field without
// one. All problems are reported together as ValidationErrors.
func ValidateDefinition(def Definition) (Definition, error) {
	var errs ValidationErrors

	out := def
	out.Title = strings.TrimSpace(def.Title)
	out.Description = strings.TrimSpace(def.Description)
	if out.Title == "" {
		errs = append(errs, &ValidationError{Code: CodeMissingTitle, Field: -1, Message: "form title is required"})
	}
	if len(def.Fields) == 0 {
		errs = append(errs, &ValidationError{Code: CodeNoFields, Field: -1, Message: "at least one field is required"})
	}

	out.Fields = make([]FieldSpec, 0, len(def.Fields))
	labels := make(map[string]int, len(def.Fields))
	for i, f := range def.Fields {
		f.Label = strings.TrimSpace(f.Label)
		if f.ID == "" {
			f.ID = uuid.NewString()
		}
		fail := func(code Code, msg string) {
			errs = append(errs, &ValidationError{Code: code, Field: i, Label: f.Label, Message: msg})
		}

		if f.Label == "" {
			fail(CodeMissingLabel, "label is required")
		} else if first, dup := labels[f.Label]; dup {
			fail(CodeDuplicateLabel, fmt.Sprintf("label already used by field %d", first+1))
		} else {
			labels[f.Label] = i
		}

		switch t := f.Type.(type) {
		case nil:
			fail(CodeUnknownType, "field type is required")
		case Unsupported:
			if t.Name == "" {
				fail(CodeUnknownType, "field type is required")
			} else {
				fail(CodeUnknownType, fmt.Sprintf("unknown field type %q", t.Name))
			}
		case Radio:
			t.Options = normalizeOptions(t.Options)
			if len(t.Options) == 0 {
				fail(CodeMissingOptions, "radio fields need at least one option")
			}
			f.Type = t
		case Checkbox:
			t.Options = normalizeOptions(t.Options)
			if len(t.Options) == 0 {
				fail(CodeMissingOptions, "checkbox fields need at least one option")
			}
			f.Type = t
		case Select:
			t.Options = normalizeOptions(t.Options)
			if len(t.Options) == 0 {
				fail(CodeMissingOptions, "select fields need at least one option")
			}
			f.Type = t
		case Scale:
			if t.Min >= t.Max || t.Step <= 0 {
				fail(CodeInvalidScaleRange, fmt.Sprintf("scale needs min < max and step > 0 (got %d..%d step %d)", t.Min, t.Max, t.Step))
			}
		case Text, Textarea, Rating:
		}
		out.Fields = append(out.Fields, f)
	}

	if len(errs) > 0 {
		return out, errs
	}
	return out, nil
}

// ValidateAnswer checks one raw answer against its field and returns the
// normalized value: string for text, textarea, radio and select; int for
// rating and scale; []string for checkbox; nil when nothing was answered.
// Feeding a normalized value back in returns it unchanged.
func ValidateAnswer(field FieldSpec, raw any) (any, error) {
	bad := func(format string, args ...any) error {
		return &ValidationError{Code: CodeInvalidAnswer, Field: -1, Label: field.Label, Message: fmt.Sprintf(format, args...)}
	}
	absent := func() (any, error) {
		if field.Required {
			return nil, &ValidationError{Code: CodeRequiredFieldMissing, Field: -1, Label: field.Label, Message: "this field is required"}
		}
		return nil, nil
	}

	// optional text keeps whatever string was typed, blank included
	if s, ok := raw.(string); ok && !field.Required {
		switch field.Type.(type) {
		case Text, Textarea:
			return s, nil
		}
	}
	if isEmpty(raw) {
		return absent()
	}

	switch t := field.Type.(type) {
	case Text, Textarea:
		s, ok := raw.(string)
		if !ok {
			return nil, bad("expected text, got %T", raw)
		}
		return s, nil
	case Radio:
		return pickOne(raw, t.Options, bad)
	case Select:
		return pickOne(raw, t.Options, bad)
	case Checkbox:
		items, ok := stringSlice(raw)
		if !ok {
			return nil, bad("expected a list of options, got %T", raw)
		}
		picked := make([]string, 0, len(items))
		for _, it := range items {
			it = strings.TrimSpace(it)
			if !contains(t.Options, it) {
				return nil, bad("%q is not one of the options", it)
			}
			if !contains(picked, it) {
				picked = append(picked, it)
			}
		}
		return picked, nil
	case Rating:
		n, ok := toInt(raw)
		if !ok {
			return nil, bad("expected a whole number, got %v", raw)
		}
		if n < RatingMin || n > RatingMax {
			return nil, bad("rating must be between %d and %d", RatingMin, RatingMax)
		}
		return n, nil
	case Scale:
		n, ok := toInt(raw)
		if !ok {
			return nil, bad("expected a whole number, got %v", raw)
		}
		if n < t.Min || n > t.Max {
			return nil, bad("value must be between %d and %d", t.Min, t.Max)
		}
		if t.Step > 0 && (n-t.Min)%t.Step != 0 {
			return nil, bad("value must move in steps of %d from %d", t.Step, t.Min)
		}
		return n, nil
	case nil:
		return nil, bad("field has no type")
	}
	return nil, bad("unsupported field type %s", field.Kind())
}

func pickOne(raw any, options []string, bad func(string, ...any) error) (any, error) {
	s, ok := raw.(string)
	if !ok {
		return nil, bad("expected one option, got %T", raw)
	}
	s = strings.TrimSpace(s)
	if !contains(options, s) {
		return nil, bad("%q is not one of the options", s)
	}
	return s, nil
}

func isEmpty(raw any) bool {
	switch v := raw.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(v) == ""
	case []string:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

func stringSlice(raw any) ([]string, bool) {
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		out := make([]string, 0, len(v))
		for _, it := range v {
			s, ok := it.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	}
	return nil, false
}

func toInt(raw any) (int, bool) {
	switch v := raw.(type) {
	case int:
		return v, true
	case int32:
		return int(v), true
	case int64:
		return int(v), true
	case float64:
		if v != math.Trunc(v) || math.IsInf(v, 0) {
			return 0, false
		}
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
