package submission

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/soaringjerry/Candor/internal/form"
)

// Submission is the schema-derived result of answering a form for one request.
type Submission struct {
	RequestID       string            `json:"requestId"`
	FormID          string            `json:"formId"`
	TextResponses   map[string]string `json:"textResponses"`
	RatingResponses map[string]int    `json:"ratingResponses"`
	SubmittedAt     time.Time         `json:"submittedAt"`
	// Anonymous is set when any answered field asks to withhold the sender.
	Anonymous bool `json:"anonymous"`

	order []entry
}

type entry struct {
	key    string
	label  string
	rating bool
}

// Payload is the body the backend expects on submit.
type Payload struct {
	FormID      string `json:"formId"`
	RequestedID string `json:"requestedId"`
	Rating      int    `json:"rating"`
	Message     string `json:"message"`
}

// Build validates answers (keyed by field position) against def and sorts
// them into the text and rating buckets, keyed by label. Every invalid answer
// is reported in one form.ValidationErrors.
func Build(def form.Definition, requestID string, answers map[int]any, now time.Time) (Submission, error) {
	sub := Submission{
		RequestID:       requestID,
		FormID:          def.ID,
		TextResponses:   map[string]string{},
		RatingResponses: map[string]int{},
		SubmittedAt:     now,
	}
	if len(def.Fields) == 0 {
		return sub, form.ValidationErrors{{Code: form.CodeNoFields, Field: -1, Message: "form has no fields"}}
	}

	labels := projectLabels(def.Fields)
	var errs form.ValidationErrors
	for i, f := range def.Fields {
		v, err := form.ValidateAnswer(f, answers[i])
		if err != nil {
			if ve, ok := err.(*form.ValidationError); ok {
				ve.Field = i
				errs = append(errs, ve)
				continue
			}
			return sub, err
		}
		if v == nil {
			continue
		}

		e := entry{key: form.Key(f.Kind(), i), label: labels[i]}
		if n, ok := v.(int); ok && f.Kind() == form.KindRating {
			e.rating = true
			sub.RatingResponses[e.label] = n
		} else {
			sub.TextResponses[e.label] = flatten(v)
		}
		sub.order = append(sub.order, e)
		if f.Anonymous {
			sub.Anonymous = true
		}
	}
	if len(errs) > 0 {
		return sub, errs
	}
	return sub, nil
}

// AnswersFromKeys converts renderer keys ("rating-0") into field positions,
// rejecting keys whose kind does not match the field at that position.
func AnswersFromKeys(def form.Definition, in map[string]any) (map[int]any, error) {
	out := make(map[int]any, len(in))
	var errs form.ValidationErrors
	for key, v := range in {
		cut := strings.LastIndexByte(key, '-')
		idx, err := strconv.Atoi(key[cut+1:])
		if cut < 0 || err != nil || idx < 0 || idx >= len(def.Fields) || form.Key(def.Fields[idx].Kind(), idx) != key {
			errs = append(errs, &form.ValidationError{Code: form.CodeInvalidAnswer, Field: -1, Message: fmt.Sprintf("unknown answer key %q", key)})
			continue
		}
		out[idx] = v
	}
	if len(errs) > 0 {
		return nil, errs
	}
	return out, nil
}

// FirstText returns the text answer of the lowest-positioned text-bearing field.
func (s Submission) FirstText() (string, bool) {
	for _, e := range s.order {
		if !e.rating {
			return s.TextResponses[e.label], true
		}
	}
	return "", false
}

// FirstRating returns the answer of the lowest-positioned rating field.
func (s Submission) FirstRating() (int, bool) {
	for _, e := range s.order {
		if e.rating {
			return s.RatingResponses[e.label], true
		}
	}
	return 0, false
}

// Keys lists the bucket keys of the answered fields in form order.
func (s Submission) Keys() []string {
	out := make([]string, 0, len(s.order))
	for _, e := range s.order {
		out = append(out, e.key)
	}
	return out
}

// Payload keeps only the first text and first rating answer; downstream
// aggregates read nothing else.
func (s Submission) Payload() Payload {
	msg, _ := s.FirstText()
	rating, _ := s.FirstRating()
	return Payload{FormID: s.FormID, RequestedID: s.RequestID, Rating: rating, Message: msg}
}

func flatten(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case []string:
		return strings.Join(t, ",")
	case int:
		return strconv.Itoa(t)
	}
	return fmt.Sprint(v)
}

// projectLabels gives every field a distinct response key. Repeated labels
// get a "__N" suffix in order of appearance; a suffix that would clash with
// any label of the form is skipped.
func projectLabels(fields []form.FieldSpec) []string {
	taken := make(map[string]bool, len(fields))
	for _, f := range fields {
		taken[f.Label] = true
	}
	out := make([]string, len(fields))
	used := make(map[string]bool, len(fields))
	next := make(map[string]int, len(fields))
	for i, f := range fields {
		if !used[f.Label] {
			out[i] = f.Label
			used[f.Label] = true
			continue
		}
		n := next[f.Label]
		key := ""
		for {
			n++
			key = fmt.Sprintf("%s__%d", f.Label, n)
			if !taken[key] && !used[key] {
				break
			}
		}
		next[f.Label] = n
		out[i] = key
		used[key] = true
	}
	return out
}
