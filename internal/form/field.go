package form

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Kind is the closed set of field kinds a form can carry.
type Kind string

const (
	KindText     Kind = "text"
	KindTextarea Kind = "textarea"
	KindRadio    Kind = "radio"
	KindCheckbox Kind = "checkbox"
	KindSelect   Kind = "select"
	KindRating   Kind = "rating"
	KindScale    Kind = "scale"
)

// Kinds lists every supported kind in builder order.
var Kinds = []Kind{KindText, KindTextarea, KindRadio, KindCheckbox, KindSelect, KindRating, KindScale}

const (
	DefaultScaleMin  = 1
	DefaultScaleMax  = 5
	DefaultScaleStep = 1

	RatingMin = 1
	RatingMax = 5
)

// FieldType is the kind-specific half of a field. Only the variants declared
// in this file implement it, so a type switch over them is exhaustive.
type FieldType interface {
	Kind() Kind
	isFieldType()
}

type Text struct{}

type Textarea struct{}

type Radio struct{ Options []string }

type Checkbox struct{ Options []string }

type Select struct{ Options []string }

type Rating struct{}

type Scale struct {
	Min  int
	Max  int
	Step int
}

// Unsupported holds a field whose kind is outside Kinds, as read from JSON.
// It keeps the raw kind so the field round-trips and validation can name it.
type Unsupported struct{ Name Kind }

func (Text) Kind() Kind     { return KindText }
func (Textarea) Kind() Kind { return KindTextarea }
func (Radio) Kind() Kind    { return KindRadio }
func (Checkbox) Kind() Kind { return KindCheckbox }
func (Select) Kind() Kind   { return KindSelect }
func (Rating) Kind() Kind   { return KindRating }
func (Scale) Kind() Kind    { return KindScale }
func (u Unsupported) Kind() Kind {
	return u.Name
}

func (Text) isFieldType()     {}
func (Textarea) isFieldType() {}
func (Radio) isFieldType()    {}
func (Checkbox) isFieldType() {}
func (Select) isFieldType()   {}
func (Rating) isFieldType()   {}
func (Scale) isFieldType()    {}

func (Unsupported) isFieldType() {}

// DefaultScale returns the range used when an admin leaves min/max/step empty.
func DefaultScale() Scale {
	return Scale{Min: DefaultScaleMin, Max: DefaultScaleMax, Step: DefaultScaleStep}
}

// Options returns the choice list for radio, checkbox and select fields and nil otherwise.
func Options(t FieldType) []string {
	switch v := t.(type) {
	case Radio:
		return v.Options
	case Checkbox:
		return v.Options
	case Select:
		return v.Options
	}
	return nil
}

// NewFieldType builds the variant for kind. Options are kept only for choice
// kinds, the range only for scale.
func NewFieldType(kind Kind, options []string, scale Scale) (FieldType, error) {
	switch kind {
	case KindText:
		return Text{}, nil
	case KindTextarea:
		return Textarea{}, nil
	case KindRadio:
		return Radio{Options: options}, nil
	case KindCheckbox:
		return Checkbox{Options: options}, nil
	case KindSelect:
		return Select{Options: options}, nil
	case KindRating:
		return Rating{}, nil
	case KindScale:
		return scale, nil
	}
	return nil, fmt.Errorf("unknown field type %q", kind)
}

// FieldSpec is one question of a form.
type FieldSpec struct {
	ID        string
	Label     string
	Required  bool
	Anonymous bool
	Type      FieldType
}

// Kind returns the field kind, or "" when the type is unset.
func (f FieldSpec) Kind() Kind {
	if f.Type == nil {
		return ""
	}
	return f.Type.Kind()
}

type wireField struct {
	ID        string   `json:"id,omitempty"`
	Type      Kind     `json:"type"`
	Label     string   `json:"label"`
	Required  bool     `json:"required"`
	Anonymous bool     `json:"anonymous"`
	Options   []string `json:"options,omitempty"`
	Min       *int     `json:"min,omitempty"`
	Max       *int     `json:"max,omitempty"`
	Step      *int     `json:"step,omitempty"`
}

func (f FieldSpec) MarshalJSON() ([]byte, error) {
	w := wireField{
		ID:        f.ID,
		Type:      f.Kind(),
		Label:     f.Label,
		Required:  f.Required,
		Anonymous: f.Anonymous,
		Options:   Options(f.Type),
	}
	if sc, ok := f.Type.(Scale); ok {
		w.Min, w.Max, w.Step = &sc.Min, &sc.Max, &sc.Step
	}
	return json.Marshal(w)
}

func (f *FieldSpec) UnmarshalJSON(b []byte) error {
	var w wireField
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	scale := DefaultScale()
	if w.Min != nil {
		scale.Min = *w.Min
	}
	if w.Max != nil {
		scale.Max = *w.Max
	}
	if w.Step != nil {
		scale.Step = *w.Step
	}
	t, err := NewFieldType(w.Type, w.Options, scale)
	if err != nil {
		t = Unsupported{Name: w.Type}
	}
	*f = FieldSpec{ID: w.ID, Label: w.Label, Required: w.Required, Anonymous: w.Anonymous, Type: t}
	return nil
}

// Key is the per-occurrence key of a field inside a rendered form. Labels are
// not unique, so answers are addressed by kind and position.
func Key(kind Kind, index int) string {
	return string(kind) + "-" + strconv.Itoa(index)
}
