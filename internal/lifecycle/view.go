package lifecycle

import "time"

type Action string

const (
	ActionRespond Action = "respond"
	ActionReject  Action = "reject"
	ActionView    Action = "view"
)

// Actions lists what a recipient may do with r. There is no edit action:
// a responded request is final.
func Actions(r Request, now time.Time) []Action {
	switch DisplayStatus(r, now) {
	case StatusPending:
		return []Action{ActionRespond, ActionReject}
	case StatusResponded:
		return []Action{ActionView}
	}
	return nil
}

var colors = map[Status]string{
	StatusPending:   "#fbbf24",
	StatusRejected:  "#ef4444",
	StatusExpired:   "#8b5cf6",
	StatusResponded: "#22c55e",
}

func Color(s Status) string {
	return colors[s]
}

// View is a request enriched with everything a client needs to render it.
type View struct {
	Request
	DisplayStatus Status   `json:"displayStatus"`
	Color         string   `json:"color"`
	Actions       []Action `json:"actions"`
}

func NewView(r Request, now time.Time) View {
	st := DisplayStatus(r, now)
	actions := Actions(r, now)
	if actions == nil {
		actions = []Action{}
	}
	return View{Request: r, DisplayStatus: st, Color: Color(st), Actions: actions}
}

// Filter keeps the requests whose derived status is s. An empty s keeps all.
func Filter(reqs []Request, s Status, now time.Time) []Request {
	out := make([]Request, 0, len(reqs))
	for _, r := range reqs {
		if s == "" || DisplayStatus(r, now) == s {
			out = append(out, r)
		}
	}
	return out
}

// CountByStatus counts requests by derived status, with every status present.
func CountByStatus(reqs []Request, now time.Time) map[Status]int {
	out := make(map[Status]int, len(Statuses))
	for _, s := range Statuses {
		out[s] = 0
	}
	for _, r := range reqs {
		out[DisplayStatus(r, now)]++
	}
	return out
}
