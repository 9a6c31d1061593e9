// Package contact drives the contact section of the site: the enquiry form,
// its simulated submission, the copy-to-clipboard popup of the company
// details card and the card's error flip.
package contact

import (
	"errors"
	"fmt"
)

// Field names a contact form input.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldPhone   Field = "phone"
	FieldMessage Field = "message"
)

// FieldOrder is the order fields appear in the form and are validated in.
var FieldOrder = []Field{FieldName, FieldEmail, FieldPhone, FieldMessage}

// ErrUnknownField is returned for a field name the form does not have.
var ErrUnknownField = errors.New("unknown contact field")

// ParseField validates a field name received from the page.
func ParseField(s string) (Field, error) {
	for _, f := range FieldOrder {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownField, s)
}

// Fields holds the current input values.
type Fields struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Get returns the value of f.
func (fs Fields) Get(f Field) string {
	switch f {
	case FieldName:
		return fs.Name
	case FieldEmail:
		return fs.Email
	case FieldPhone:
		return fs.Phone
	case FieldMessage:
		return fs.Message
	}
	return ""
}

func (fs *Fields) set(f Field, v string) {
	switch f {
	case FieldName:
		fs.Name = v
	case FieldEmail:
		fs.Email = v
	case FieldPhone:
		fs.Phone = v
	case FieldMessage:
		fs.Message = v
	}
}

// Submission is the lifecycle of a submit attempt.
type Submission int

const (
	Idle Submission = iota
	Validating
	Submitting
	Succeeded
	Failed
)

var submissionNames = [...]string{"idle", "validating", "submitting", "succeeded", "failed"}

func (s Submission) String() string {
	if s < 0 || int(s) >= len(submissionNames) {
		return fmt.Sprintf("submission(%d)", int(s))
	}
	return submissionNames[s]
}

// MarshalText encodes the submission as its lowercase name.
func (s Submission) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// MessageKind distinguishes the banner shown under the form.
type MessageKind string

const (
	KindSuccess MessageKind = "success"
	KindError   MessageKind = "error"
)

// Message is the form-level banner.
type Message struct {
	Text string      `json:"text"`
	Kind MessageKind `json:"kind"`
}

// Point is a position in CSS pixels.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Notice is the transient "copied" popup. Anchor is in viewport coordinates
// and is nil when the copy was not triggered by a pointer.
type Notice struct {
	Value  string `json:"value"`
	Anchor *Point `json:"anchor,omitempty"`
	Fading bool   `json:"fading"`
}

// Announcement is the text read out by the polite live region.
func (n Notice) Announcement() string {
	return "Skopiowano: " + n.Value
}

// State is a snapshot of everything the contact section renders.
type State struct {
	Fields     Fields           `json:"fields"`
	Errors     map[Field]string `json:"errors"`
	Submission Submission       `json:"submission"`
	Loading    bool             `json:"loading"`
	Message    *Message         `json:"message,omitempty"`
	ErrorFlip  bool             `json:"error_flip"`
	Notice     *Notice          `json:"notice,omitempty"`
}
