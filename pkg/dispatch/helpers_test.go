package dispatch_test

import (
	"context"
	"sync"

	"notifier/pkg/dispatch"
)

type testContact struct {
	Addr string `json:"addr"`
}

type pagerContact string

type testTemplate struct {
	Subject string
	Body    string
}

type testContents struct {
	Subject string
	Body    string
}

type testMessage struct {
	To      string
	Sender  string
	Subject string
	Body    string
}

type compiledTestTemplate struct {
	subject dispatch.TemplateHandle
	body    dispatch.TemplateHandle
}

func (c *compiledTestTemplate) TemplateHandles() []dispatch.TemplateHandle {
	return []dispatch.TemplateHandle{c.subject, c.body}
}

// recordingChannel keeps every message it is asked to send.
type recordingChannel struct {
	name    string
	sendErr error

	mu   sync.Mutex
	sent []*testMessage
}

func newRecordingChannel(name string) *recordingChannel {
	return &recordingChannel{name: name}
}

func (c *recordingChannel) Identity() dispatch.ChannelIdentity {
	return dispatch.IdentityOf[*testMessage, testContact]()
}

func (c *recordingChannel) CreateMessage(contact testContact, contents testContents) (*testMessage, error) {
	if contact.Addr == "" {
		return nil, dispatch.NewBuildError("test", "addr")
	}
	return &testMessage{
		To:      contact.Addr,
		Sender:  c.name,
		Subject: contents.Subject,
		Body:    contents.Body,
	}, nil
}

func (c *recordingChannel) Send(_ context.Context, msg *testMessage) error {
	if c.sendErr != nil {
		return dispatch.NewTransportError("test", "recording", c.sendErr)
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sent = append(c.sent, msg)
	return nil
}

func (c *recordingChannel) RegisterTemplate(id dispatch.NotificationID, source testTemplate, ts *dispatch.TemplateService) error {
	subject, err := ts.Compile(source.Subject)
	if err != nil {
		return err
	}
	body, err := ts.Compile(source.Body)
	if err != nil {
		return err
	}
	ts.PutTemplate(id, c.Identity(), &compiledTestTemplate{subject: subject, body: body})
	return nil
}

func (c *recordingChannel) RenderTemplate(id dispatch.NotificationID, ctx dispatch.RenderContext, ts *dispatch.TemplateService) (testContents, error) {
	compiled, err := dispatch.GetTemplate[*compiledTestTemplate](ts, id, c.Identity())
	if err != nil {
		return testContents{}, err
	}
	subject, err := ts.RenderTemplate(compiled.subject, ctx)
	if err != nil {
		return testContents{}, err
	}
	body, err := ts.RenderTemplate(compiled.body, ctx)
	if err != nil {
		return testContents{}, err
	}
	return testContents{Subject: subject, Body: body}, nil
}

func (c *recordingChannel) Erased() dispatch.ErasedChannel {
	return dispatch.Erase[testContact, *testMessage, testTemplate, testContents](c)
}

func (c *recordingChannel) messages() []*testMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*testMessage, len(c.sent))
	copy(out, c.sent)
	return out
}

type altTemplate struct {
	Text string
}

// altChannel shares recordingChannel's identity but takes a different
// template type.
type altChannel struct {
	*recordingChannel
}

func (c altChannel) RegisterTemplate(id dispatch.NotificationID, source altTemplate, ts *dispatch.TemplateService) error {
	return c.recordingChannel.RegisterTemplate(id, testTemplate{Subject: source.Text, Body: source.Text}, ts)
}

func (c altChannel) Erased() dispatch.ErasedChannel {
	return dispatch.Erase[testContact, *testMessage, altTemplate, testContents](c)
}

type welcomeNotification struct {
	Name string `json:"name"`
}

func (welcomeNotification) NotificationID() dispatch.NotificationID { return "welcome" }

type resetNotification struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

func (resetNotification) NotificationID() dispatch.NotificationID { return "reset" }
