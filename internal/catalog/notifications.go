package catalog

import (
	"errors"

	"notifier/pkg/dispatch"
)

// Welcome greets a newly registered user.
type Welcome struct {
	Name    string `json:"name" mapstructure:"name"`
	AppName string `json:"app_name,omitempty" mapstructure:"app_name"`
}

func (Welcome) NotificationID() dispatch.NotificationID { return "welcome" }

func (w Welcome) Validate() error {
	if w.Name == "" {
		return errors.New("name is required")
	}
	return nil
}

// MagicLink carries a one-time sign-in link.
type MagicLink struct {
	Link             string `json:"link" mapstructure:"link"`
	ExpiresInMinutes int    `json:"expires_in_minutes,omitempty" mapstructure:"expires_in_minutes"`
}

func (MagicLink) NotificationID() dispatch.NotificationID { return "magic_link" }

func (m MagicLink) Validate() error {
	if m.Link == "" {
		return errors.New("link is required")
	}
	return nil
}

// ResetPassword carries a password reset link.
type ResetPassword struct {
	Name     string `json:"name,omitempty" mapstructure:"name"`
	ResetURL string `json:"reset_url" mapstructure:"reset_url"`
}

func (ResetPassword) NotificationID() dispatch.NotificationID { return "reset_password" }

func (r ResetPassword) Validate() error {
	if r.ResetURL == "" {
		return errors.New("reset_url is required")
	}
	return nil
}

// LoginCode carries a one-time login code.
type LoginCode struct {
	Code string `json:"code" mapstructure:"code"`
}

func (LoginCode) NotificationID() dispatch.NotificationID { return "login_code" }

func (l LoginCode) Validate() error {
	if l.Code == "" {
		return errors.New("code is required")
	}
	return nil
}

// PasswordChanged tells a user their password was changed.
type PasswordChanged struct {
	Name string `json:"name,omitempty" mapstructure:"name"`
}

func (PasswordChanged) NotificationID() dispatch.NotificationID { return "password_changed" }
