package submission

import "github.com/soaringjerry/Candor/internal/form"

// AnonymousName replaces the sender name on redacted responses.
const AnonymousName = "Anonymous"

// Identity is the sender attribution shown next to a response.
type Identity struct {
	SenderID   string `json:"senderId,omitempty"`
	SenderName string `json:"senderName,omitempty"`
}

// Redact strips the sender when the response is anonymous.
func Redact(id Identity, anonymous bool) Identity {
	if !anonymous {
		return id
	}
	return Identity{SenderName: AnonymousName}
}

// AnyAnonymous reports whether def flags at least one field as anonymous. It
// is the fallback when it is unknown which fields a response answered.
func AnyAnonymous(def form.Definition) bool {
	for _, f := range def.Fields {
		if f.Anonymous {
			return true
		}
	}
	return false
}
