package form

// Input is the widget a renderer should draw for a field.
type Input string

const (
	InputText     Input = "text"
	InputTextarea Input = "textarea"
	InputRadio    Input = "radio"
	InputCheckbox Input = "checkbox"
	InputSelect   Input = "select"
	InputStars    Input = "stars"
	InputRange    Input = "range"

	// InputUnsupported marks a legacy field no renderer can draw.
	InputUnsupported Input = "unsupported"
)

// Descriptor tells a renderer everything it needs to draw one field without
// any per-kind logic of its own.
type Descriptor struct {
	Index     int      `json:"index"`
	Key       string   `json:"key"`
	Kind      Kind     `json:"kind"`
	Input     Input    `json:"input"`
	Label     string   `json:"label"`
	Required  bool     `json:"required"`
	Anonymous bool     `json:"anonymous"`
	Multiple  bool     `json:"multiple"`
	Numeric   bool     `json:"numeric"`
	Options   []string `json:"options,omitempty"`
	Min       int      `json:"min,omitempty"`
	Max       int      `json:"max,omitempty"`
	Step      int      `json:"step,omitempty"`
}

func Describe(index int, f FieldSpec) Descriptor {
	d := Descriptor{
		Index:     index,
		Key:       Key(f.Kind(), index),
		Kind:      f.Kind(),
		Label:     f.Label,
		Required:  f.Required,
		Anonymous: f.Anonymous,
	}
	switch t := f.Type.(type) {
	case Text:
		d.Input = InputText
	case Textarea:
		d.Input = InputTextarea
	case Radio:
		d.Input, d.Options = InputRadio, t.Options
	case Checkbox:
		d.Input, d.Options, d.Multiple = InputCheckbox, t.Options, true
	case Select:
		d.Input, d.Options = InputSelect, t.Options
	case Rating:
		d.Input, d.Numeric = InputStars, true
		d.Min, d.Max, d.Step = RatingMin, RatingMax, 1
	case Scale:
		d.Input, d.Numeric = InputRange, true
		d.Min, d.Max, d.Step = t.Min, t.Max, t.Step
	case Unsupported:
		d.Input = InputUnsupported
	}
	return d
}

func DescribeForm(def Definition) []Descriptor {
	out := make([]Descriptor, 0, len(def.Fields))
	for i, f := range def.Fields {
		out = append(out, Describe(i, f))
	}
	return out
}
