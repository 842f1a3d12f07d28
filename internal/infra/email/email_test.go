package email

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wneessen/go-mail"

	"notifier/pkg/channel/email"
)

func testMessage() *email.Message {
	replyTo := email.NewAddress("support@example.com")
	return &email.Message{
		To:      email.Address{Name: "Ada", Email: "ada@example.com"},
		From:    email.Address{Name: "Acme", Email: "no-reply@example.com"},
		ReplyTo: &replyTo,
		Contents: email.Contents{
			Subject: "Welcome",
			HTML:    "<p>Hi Ada</p>",
			Text:    "Hi Ada",
		},
	}
}

func TestResendRequest(t *testing.T) {
	req := resendRequest(testMessage())

	assert.Equal(t, `"Acme" <no-reply@example.com>`, req.From)
	assert.Equal(t, []string{`"Ada" <ada@example.com>`}, req.To)
	assert.Equal(t, "<support@example.com>", req.ReplyTo)
	assert.Equal(t, "Welcome", req.Subject)
	assert.Equal(t, "<p>Hi Ada</p>", req.Html)
	assert.Equal(t, "Hi Ada", req.Text)
}

func TestResendRequest_NoReplyTo(t *testing.T) {
	msg := testMessage()
	msg.ReplyTo = nil

	assert.Empty(t, resendRequest(msg).ReplyTo)
}

func TestBuildMsg(t *testing.T) {
	m, err := buildMsg(testMessage())
	require.NoError(t, err)

	rcpts, err := m.GetRecipients()
	require.NoError(t, err)
	assert.Equal(t, []string{"ada@example.com"}, rcpts)
	assert.Equal(t, []string{"Welcome"}, m.GetGenHeader(mail.HeaderSubject))
}

func TestBuildMsg_InvalidRecipient(t *testing.T) {
	msg := testMessage()
	msg.To = email.NewAddress("not-an-address")

	_, err := buildMsg(msg)
	assert.Error(t, err)
}

func TestTLSPolicyFromEncryption(t *testing.T) {
	assert.Equal(t, mail.TLSMandatory, tlsPolicyFromEncryption("ssl_tls"))
	assert.Equal(t, mail.TLSOpportunistic, tlsPolicyFromEncryption("starttls"))
	assert.Equal(t, mail.NoTLS, tlsPolicyFromEncryption(""))
}

func TestProviderNames(t *testing.T) {
	assert.Equal(t, "resend", NewResendProvider("re_test").Name())
	assert.Equal(t, "smtp", NewSMTPProvider(SMTPConfig{}).Name())
}
