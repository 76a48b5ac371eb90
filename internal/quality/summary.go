package quality

import (
	"context"
	"strings"
)

const summarizerPrompt = "You are a professional feedback summarizer. Summarize the following feedback in a clear, concise manner, separating the strengths and areas for improvement into bullet points. Label the sections \"Strengths:\" and \"Areas for improvement:\". If the feedback is entirely positive, only include strengths. If it is entirely negative, focus on areas of improvement."

// NoFeedback is the summary of an empty feedback list.
const NoFeedback = "No feedback to summarize."

// Summary is a model summary split into its two sections.
type Summary struct {
	Text         string   `json:"text"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
}

func (c *Client) Summarize(ctx context.Context, texts []string) (string, error) {
	var kept []string
	for _, t := range texts {
		if t = strings.TrimSpace(t); t != "" {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return NoFeedback, nil
	}
	out, err := c.chat(ctx, summarizerPrompt, "Feedbacks:\n"+strings.Join(kept, "\n"))
	if err != nil {
		return "", err
	}
	if out == "" {
		return NoFeedback, nil
	}
	return out, nil
}

type section int

const (
	sectionNone section = iota
	sectionStrengths
	sectionImprovements
)

// ParseSummary splits summary text on its section headings. Bullets before
// any heading are dropped; text after a heading's colon counts as a bullet.
func ParseSummary(text string) Summary {
	s := Summary{Text: strings.TrimSpace(text), Strengths: []string{}, Improvements: []string{}}
	cur := sectionNone
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if sec, rest, ok := heading(line); ok {
			cur = sec
			line = rest
			if line == "" {
				continue
			}
		}
		item := bullet(line)
		if item == "" {
			continue
		}
		switch cur {
		case sectionStrengths:
			s.Strengths = append(s.Strengths, item)
		case sectionImprovements:
			s.Improvements = append(s.Improvements, item)
		}
	}
	return s
}

func heading(line string) (section, string, bool) {
	plain := strings.Trim(line, "#*_ ")
	head, rest, found := strings.Cut(plain, ":")
	if !found && !isHeadingWord(plain) {
		return sectionNone, "", false
	}
	if !found {
		head = plain
	}
	h := strings.ToLower(strings.Trim(head, "#*_ "))
	rest = strings.TrimSpace(strings.Trim(rest, "*_ "))
	switch {
	case h == "strengths" || h == "strength":
		return sectionStrengths, rest, true
	case strings.HasPrefix(h, "areas for improvement"), strings.HasPrefix(h, "areas of improvement"),
		h == "improvements", h == "weaknesses", h == "weakness":
		return sectionImprovements, rest, true
	}
	return sectionNone, "", false
}

func isHeadingWord(s string) bool {
	l := strings.ToLower(s)
	return l == "strengths" || l == "weaknesses" || l == "improvements" ||
		strings.HasPrefix(l, "areas for improvement") || strings.HasPrefix(l, "areas of improvement")
}

func bullet(line string) string {
	line = strings.TrimLeft(line, "-*•+ \t")
	// numbered list
	if i := strings.IndexAny(line, ".)"); i > 0 && i <= 3 && isDigits(line[:i]) {
		line = line[i+1:]
	}
	return strings.TrimSpace(line)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
