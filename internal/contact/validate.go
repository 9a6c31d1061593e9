package contact

import (
	"regexp"
	"strings"
)

// Fixed user-facing strings.
const (
	MsgNameRequired     = "Imię jest wymagane."
	MsgEmailRequired    = "Email jest wymagany."
	MsgEmailInvalid     = "Proszę podać prawidłowy adres email."
	MsgMessageRequired  = "Wiadomość jest wymagana."
	MsgValidationFailed = "Sprawdź proszę dane w formularzu oraz spróbuj ponownie."
	MsgSent             = "Wiadomość została wysłana pomyślnie!"
	MsgSendFailed       = "Wystąpił błąd podczas wysyłania wiadomości. Spróbuj ponownie."
)

// emailRe accepts local@domain.tld: one @, a dot after it, no whitespace.
// RE2's \s is ASCII-only without \v, so the class spells out the rest of
// the browser's whitespace set.
var emailRe = regexp.MustCompile(`^[^\s\v\p{Z}\x{FEFF}@]+@[^\s\v\p{Z}\x{FEFF}@]+\.[^\s\v\p{Z}\x{FEFF}@]+$`)

// IsValidEmail reports whether s has the shape local@domain.tld.
func IsValidEmail(s string) bool {
	return emailRe.MatchString(s)
}

// Validate checks every rule and returns the failing fields with their
// messages. An empty map means the form may be submitted. Phone is optional
// and never checked.
func Validate(fs Fields) map[Field]string {
	errs := make(map[Field]string)
	if strings.TrimSpace(fs.Name) == "" {
		errs[FieldName] = MsgNameRequired
	}
	if strings.TrimSpace(fs.Email) == "" {
		errs[FieldEmail] = MsgEmailRequired
	} else if !IsValidEmail(fs.Email) {
		errs[FieldEmail] = MsgEmailInvalid
	}
	if strings.TrimSpace(fs.Message) == "" {
		errs[FieldMessage] = MsgMessageRequired
	}
	return errs
}
