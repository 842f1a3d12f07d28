package sms

import (
	"errors"
	"strings"
)

// PhoneNumber is an SMS contact in E.164 form, e.g. "+15551234567".
type PhoneNumber string

var errInvalidNumber = errors.New("phone number must be in E.164 form")

// ParsePhoneNumber normalises s, dropping spaces, dashes and parentheses,
// and checks that the result is in E.164 form.
func ParsePhoneNumber(s string) (PhoneNumber, error) {
	cleaned := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '-', '(', ')', '.':
			return -1
		}
		return r
	}, strings.TrimSpace(s))

	if len(cleaned) < 3 || len(cleaned) > 16 || cleaned[0] != '+' {
		return "", errInvalidNumber
	}
	for _, r := range cleaned[1:] {
		if r < '0' || r > '9' {
			return "", errInvalidNumber
		}
	}
	return PhoneNumber(cleaned), nil
}

func (p PhoneNumber) String() string {
	return string(p)
}

// Template is the SMS template integrators register for a notification.
type Template struct {
	Body string
}

// Contents is a rendered SMS body.
type Contents struct {
	Body string `json:"body"`
}

// Message is an SMS ready for a provider.
type Message struct {
	To   PhoneNumber `json:"to"`
	From PhoneNumber `json:"from"`
	Body string      `json:"body"`
}
