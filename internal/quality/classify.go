package quality

import (
	"context"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/soaringjerry/Candor/internal/logging"
)

type Verdict string

const (
	Constructive    Verdict = "constructive"
	NotConstructive Verdict = "not_constructive"
	// Indeterminate never blocks a submission.
	Indeterminate Verdict = "indeterminate"
)

const classifierPrompt = `You are a strict feedback classifier. If feedback is helpful, polite, or constructive, return only "true". If it's rude, vague, unhelpful, or inappropriate, return only "false". Never explain anything.`

// Classify asks the model whether text is constructive. Only a literal
// true or false answer counts; errors and anything else are Indeterminate.
func (c *Client) Classify(ctx context.Context, text string) Verdict {
	if strings.TrimSpace(text) == "" || !c.Enabled() {
		return Indeterminate
	}
	answer, err := c.chat(ctx, classifierPrompt, "Feedback: "+strconv.Quote(text))
	if err != nil {
		logging.FromContext(ctx).Warn(ctx, "feedback classification failed", zap.Error(err))
		return Indeterminate
	}
	return parseVerdict(answer)
}

func parseVerdict(answer string) Verdict {
	a := strings.ToLower(strings.TrimSpace(answer))
	a = strings.Trim(a, `"'.`)
	switch a {
	case "true":
		return Constructive
	case "false":
		return NotConstructive
	}
	return Indeterminate
}
