package form

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func textField(label string) FieldSpec {
	return FieldSpec{ID: "f-" + label, Label: label, Type: Text{}}
}

func TestValidateDefinitionNoFields(t *testing.T) {
	_, err := ValidateDefinition(Definition{Title: "Quarterly review"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoFields))
	assert.False(t, HasCode(err, CodeMissingTitle))
}

func TestValidateDefinitionCollectsEveryProblem(t *testing.T) {
	def := Definition{
		Title: "   ",
		Fields: []FieldSpec{
			{Label: "Team", Type: Radio{Options: []string{" ", ""}}},
			{Label: "Energy", Type: Scale{Min: 5, Max: 1, Step: 1}},
			{Label: "", Type: Text{}},
			{Label: "Team", Type: Textarea{}},
			{Label: "Mystery"},
		},
	}
	_, err := ValidateDefinition(def)
	require.Error(t, err)

	es, ok := AsValidationErrors(err)
	require.True(t, ok)
	codes := make([]Code, 0, len(es))
	for _, e := range es {
		codes = append(codes, e.Code)
	}
	assert.ElementsMatch(t, []Code{
		CodeMissingTitle,
		CodeMissingOptions,
		CodeInvalidScaleRange,
		CodeMissingLabel,
		CodeDuplicateLabel,
		CodeUnknownType,
	}, codes)
	assert.Equal(t, 0, es[1].Field)
}

func TestValidateDefinitionMissingOptionsForEveryChoiceKind(t *testing.T) {
	for _, ft := range []FieldType{Radio{}, Checkbox{}, Select{Options: []string{}}} {
		t.Run(string(ft.Kind()), func(t *testing.T) {
			_, err := ValidateDefinition(Definition{Title: "T", Fields: []FieldSpec{{Label: "Pick", Type: ft}}})
			assert.True(t, errors.Is(err, ErrMissingOptions))
		})
	}
}

func TestValidateDefinitionScaleRange(t *testing.T) {
	tests := []struct {
		name  string
		scale Scale
		bad   bool
	}{
		{"default", DefaultScale(), false},
		{"equal bounds", Scale{Min: 3, Max: 3, Step: 1}, true},
		{"inverted", Scale{Min: 10, Max: 0, Step: 1}, true},
		{"zero step", Scale{Min: 0, Max: 10, Step: 0}, true},
		{"negative step", Scale{Min: 0, Max: 10, Step: -2}, true},
		{"wide", Scale{Min: 0, Max: 100, Step: 10}, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ValidateDefinition(Definition{Title: "T", Fields: []FieldSpec{{Label: "S", Type: tc.scale}}})
			assert.Equal(t, tc.bad, HasCode(err, CodeInvalidScaleRange))
		})
	}
}

func TestValidateDefinitionNormalizes(t *testing.T) {
	def := Definition{
		Title: "  Peer feedback ",
		Fields: []FieldSpec{
			{Label: " Strengths ", Type: Checkbox{Options: []string{" Focus", "Focus", "", "Ownership "}}},
		},
	}
	out, err := ValidateDefinition(def)
	require.NoError(t, err)
	assert.Equal(t, "Peer feedback", out.Title)
	assert.Equal(t, "Strengths", out.Fields[0].Label)
	assert.Equal(t, []string{"Focus", "Ownership"}, Options(out.Fields[0].Type))
	assert.NotEmpty(t, out.Fields[0].ID)
	assert.Equal(t, "", def.Fields[0].ID, "input must not be mutated")
}

func TestParseOptions(t *testing.T) {
	assert.Equal(t, []string{"Option 1", "Option 2"}, ParseOptions("Option 1, Option 2, ,Option 1"))
	assert.Empty(t, ParseOptions(" , "))
}

func TestValidateAnswer(t *testing.T) {
	tests := []struct {
		name  string
		field FieldSpec
		raw   any
		want  any
		code  Code
	}{
		{"text", textField("Comments"), "Great work", "Great work", ""},
		{"optional text empty", textField("Comments"), "", "", ""},
		{"optional text blank kept", FieldSpec{Label: "C", Type: Textarea{}}, "   ", "   ", ""},
		{"optional text absent", textField("Comments"), nil, nil, ""},
		{"required text blank", FieldSpec{Label: "C", Required: true, Type: Textarea{}}, "  ", nil, CodeRequiredFieldMissing},
		{"text wrong type", textField("Comments"), 4.0, nil, CodeInvalidAnswer},
		{"radio member", FieldSpec{Label: "R", Type: Radio{Options: []string{"Yes", "No"}}}, "No", "No", ""},
		{"radio outsider", FieldSpec{Label: "R", Type: Radio{Options: []string{"Yes", "No"}}}, "Maybe", nil, CodeInvalidAnswer},
		{"select member", FieldSpec{Label: "S", Type: Select{Options: []string{"A", "B"}}}, " B ", "B", ""},
		{"checkbox subset", FieldSpec{Label: "C", Type: Checkbox{Options: []string{"A", "B", "C"}}}, []any{"C", "A", "C"}, []string{"C", "A"}, ""},
		{"checkbox outsider", FieldSpec{Label: "C", Type: Checkbox{Options: []string{"A"}}}, []string{"A", "Z"}, nil, CodeInvalidAnswer},
		{"checkbox required empty", FieldSpec{Label: "C", Required: true, Type: Checkbox{Options: []string{"A"}}}, []any{}, nil, CodeRequiredFieldMissing},
		{"rating json number", FieldSpec{Label: "Q", Type: Rating{}}, 4.0, 4, ""},
		{"rating string", FieldSpec{Label: "Q", Type: Rating{}}, "5", 5, ""},
		{"rating out of range", FieldSpec{Label: "Q", Type: Rating{}}, 6, nil, CodeInvalidAnswer},
		{"rating fractional", FieldSpec{Label: "Q", Type: Rating{}}, 3.5, nil, CodeInvalidAnswer},
		{"rating required absent", FieldSpec{Label: "Q", Required: true, Type: Rating{}}, nil, nil, CodeRequiredFieldMissing},
		{"scale on step", FieldSpec{Label: "S", Type: Scale{Min: 0, Max: 10, Step: 5}}, json.Number("5"), 5, ""},
		{"scale off step", FieldSpec{Label: "S", Type: Scale{Min: 0, Max: 10, Step: 5}}, 3, nil, CodeInvalidAnswer},
		{"scale below", FieldSpec{Label: "S", Type: DefaultScale()}, 0, nil, CodeInvalidAnswer},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ValidateAnswer(tc.field, tc.raw)
			if tc.code != "" {
				require.Error(t, err)
				assert.True(t, HasCode(err, tc.code), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestValidateAnswerIdempotent(t *testing.T) {
	fields := []struct {
		field FieldSpec
		raw   any
	}{
		{textField("T"), "hello"},
		{FieldSpec{Label: "R", Type: Radio{Options: []string{"a", "b"}}}, " a"},
		{FieldSpec{Label: "C", Type: Checkbox{Options: []string{"a", "b"}}}, []any{"b", "a", "b"}},
		{FieldSpec{Label: "Q", Type: Rating{}}, "3"},
		{FieldSpec{Label: "S", Type: Scale{Min: 2, Max: 8, Step: 2}}, 6.0},
		{textField("Empty"), ""},
	}
	for _, tc := range fields {
		first, err := ValidateAnswer(tc.field, tc.raw)
		require.NoError(t, err)
		second, err := ValidateAnswer(tc.field, first)
		require.NoError(t, err)
		assert.Equal(t, first, second, tc.field.Label)
	}
}

func TestFieldSpecJSON(t *testing.T) {
	raw := `{"type":"scale","label":"Energy","required":true,"anonymous":true,"max":10}`
	var f FieldSpec
	require.NoError(t, json.Unmarshal([]byte(raw), &f))
	assert.Equal(t, Scale{Min: 1, Max: 10, Step: 1}, f.Type)
	assert.True(t, f.Anonymous)

	var choice FieldSpec
	require.NoError(t, json.Unmarshal([]byte(`{"type":"text","label":"x","options":["ignored"]}`), &choice))
	assert.Equal(t, Text{}, choice.Type)

	var unknown FieldSpec
	assert.Error(t, json.Unmarshal([]byte(`{"type":"slider","label":"x"}`), &unknown))

	out, err := json.Marshal(FieldSpec{Label: "Pick", Type: Select{Options: []string{"a"}}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"select","label":"Pick","required":false,"anonymous":false,"options":["a"]}`, string(out))
}

func TestDefinitionAcceptsBackendID(t *testing.T) {
	var def Definition
	require.NoError(t, json.Unmarshal([]byte(`{"_id":"665f","title":"T","fields":[]}`), &def))
	assert.Equal(t, "665f", def.ID)

	var alt Definition
	require.NoError(t, json.Unmarshal([]byte(`{"id":"abc","title":"T","fields":[{"type":"rating","label":"Q"}]}`), &alt))
	assert.Equal(t, "abc", alt.ID)
	assert.Equal(t, KindRating, alt.Fields[0].Kind())
}

func TestDescribeForm(t *testing.T) {
	def := Definition{Fields: []FieldSpec{
		{Label: "Quality", Type: Rating{}},
		{Label: "Areas", Type: Checkbox{Options: []string{"a", "b"}}},
		{Label: "Energy", Type: Scale{Min: 0, Max: 10, Step: 2}, Anonymous: true},
	}}
	ds := DescribeForm(def)
	require.Len(t, ds, 3)
	assert.Equal(t, "rating-0", ds[0].Key)
	assert.Equal(t, InputStars, ds[0].Input)
	assert.Equal(t, 5, ds[0].Max)
	assert.True(t, ds[1].Multiple)
	assert.Equal(t, []string{"a", "b"}, ds[1].Options)
	assert.Equal(t, InputRange, ds[2].Input)
	assert.Equal(t, 2, ds[2].Step)
	assert.True(t, ds[2].Anonymous)
}

func TestDecodeKeepsUnknownKindsForValidation(t *testing.T) {
	var def Definition
	require.NoError(t, json.Unmarshal([]byte(`{"title":"  ","fields":[{"label":"When","type":"date"},{"label":"Pick","type":"radio"}]}`), &def))
	require.Len(t, def.Fields, 2)
	assert.Equal(t, Kind("date"), def.Fields[0].Kind())

	_, err := ValidateDefinition(def)
	es, ok := AsValidationErrors(err)
	require.True(t, ok)
	var codes []Code
	for _, e := range es {
		codes = append(codes, e.Code)
	}
	assert.ElementsMatch(t, []Code{CodeMissingTitle, CodeUnknownType, CodeMissingOptions}, codes)

	out, err := json.Marshal(def.Fields[0])
	require.NoError(t, err)
	assert.Contains(t, string(out), `"type":"date"`)

	_, err = ValidateAnswer(def.Fields[0], "2025-05-08")
	assert.True(t, HasCode(err, CodeInvalidAnswer))
}

func TestDecodeFormListWithLegacyKind(t *testing.T) {
	var defs []Definition
	raw := `[{"_id":"F1","title":"Old","fields":[{"label":"When","type":"date"}]},{"_id":"F2","title":"New","fields":[{"label":"Q","type":"rating"}]}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &defs))
	require.Len(t, defs, 2)
	assert.Equal(t, KindRating, defs[1].Fields[0].Kind())
	assert.Equal(t, InputUnsupported, Describe(0, defs[0].Fields[0]).Input)
}
