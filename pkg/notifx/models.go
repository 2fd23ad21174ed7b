package notifx

// EmailMessage is the envelope handed to a provider for one send attempt.
// Optional fields left empty are omitted from the outgoing message.
type EmailMessage struct {
	From        string       `json:"from"`
	FromName    string       `json:"from_name,omitempty"`
	To          []string     `json:"to"`
	CC          []string     `json:"cc,omitempty"`
	BCC         []string     `json:"bcc,omitempty"`
	Subject     string       `json:"subject"`
	TextBody    string       `json:"text_body,omitempty"`
	HTMLBody    string       `json:"html_body,omitempty"`
	Attachments []Attachment `json:"attachments,omitempty"`
}

// Attachment references a file on disk to attach under Filename. The file
// is read at send time; notifx never deletes it.
type Attachment struct {
	Filename string `json:"filename"`
	Path     string `json:"path"`
}
