package mail

import "context"

// Fallback text body used when a message carries only HTML.
const plainTextFallback = "Please view this email in an HTML-compatible email client."

// Message is one outbound email. From fields are optional; the configured
// sender identity is always used on the wire and FromEmail only becomes the
// reply-to address.
type Message struct {
	To        string
	Subject   string
	HTML      string
	Text      string
	FromName  string
	FromEmail string
}

// TextOrFallback returns the plain-text part, substituting the standard
// fallback line when none was provided.
func (m Message) TextOrFallback() string {
	if m.Text != "" {
		return m.Text
	}
	return plainTextFallback
}

// Result reports the outcome of a delivery attempt across the chain.
type Result struct {
	Success bool   `json:"success"`
	Method  string `json:"method,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Transport is one way of getting a message out the door. Send returns the
// method identifier that actually delivered the message, which can differ
// from Name when a transport has an internal fallback format.
type Transport interface {
	Name() string
	Configured() bool
	Send(ctx context.Context, msg Message) (string, error)
}
