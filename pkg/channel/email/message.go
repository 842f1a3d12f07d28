package email

// Contents is a rendered email.
type Contents struct {
	Subject string `json:"subject"`
	HTML    string `json:"html"`
	Text    string `json:"text,omitempty"`
}

// Message is an email ready for a provider.
type Message struct {
	To       Address  `json:"to"`
	From     Address  `json:"from"`
	ReplyTo  *Address `json:"reply_to,omitempty"`
	Contents Contents `json:"contents"`
}
