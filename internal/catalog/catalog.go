// Package catalog holds the notifications the service knows how to send and
// the templates registered for them on each channel.
package catalog

import (
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"sort"

	"notifier/internal/common"
	"notifier/pkg/channel/email"
	"notifier/pkg/channel/sms"
	"notifier/pkg/channel/telegram"
	"notifier/pkg/dispatch"

	"github.com/go-viper/mapstructure/v2"
)

//go:embed templates/*.html
var templateFS embed.FS

// Definition describes one notification kind: how to decode its data and
// which channel templates it has.
type Definition struct {
	ID        dispatch.NotificationID
	Templates []any

	decode func(data map[string]any) (dispatch.Notification, error)
}

type validator interface {
	Validate() error
}

// Define builds a definition for notification kind N, a struct type or a
// pointer to one. Each template must be a user template type of a channel
// (email.Template, sms.Template, ...).
func Define[N dispatch.Notification](templates ...any) Definition {
	id, err := dispatch.NotificationIDOf[N]()
	if err != nil {
		panic(fmt.Sprintf("catalog: %s", err))
	}
	return Definition{
		ID:        id,
		Templates: templates,
		decode: func(data map[string]any) (dispatch.Notification, error) {
			return decodeAs[N](id, data)
		},
	}
}

func decodeAs[N dispatch.Notification](id dispatch.NotificationID, data map[string]any) (dispatch.Notification, error) {
	var n N
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           &n,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return nil, fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(data); err != nil {
		return nil, common.NewValidationError(fmt.Sprintf("invalid data for %s: %s", id, err))
	}
	// Nil data leaves a pointer kind unset.
	if v := reflect.ValueOf(&n).Elem(); v.Kind() == reflect.Pointer && v.IsNil() {
		v.Set(reflect.New(v.Type().Elem()))
	}

	if v, ok := any(n).(validator); ok {
		if err := v.Validate(); err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("invalid data for %s: %s", id, err))
		}
	}
	return n, nil
}

// Catalog is a set of notification definitions keyed by id.
type Catalog struct {
	defs map[dispatch.NotificationID]Definition
}

// New creates a catalog from defs. A later definition with the same id
// replaces an earlier one.
func New(defs ...Definition) *Catalog {
	c := &Catalog{defs: make(map[dispatch.NotificationID]Definition, len(defs))}
	for _, d := range defs {
		c.defs[d.ID] = d
	}
	return c
}

// Lookup returns the definition for id.
func (c *Catalog) Lookup(id dispatch.NotificationID) (Definition, bool) {
	d, ok := c.defs[id]
	return d, ok
}

// IDs lists the catalog's notification ids in order.
func (c *Catalog) IDs() []dispatch.NotificationID {
	ids := make([]dispatch.NotificationID, 0, len(c.defs))
	for id := range c.defs {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Decode turns request data into the notification value for id.
func (c *Catalog) Decode(id string, data map[string]any) (dispatch.Notification, error) {
	d, ok := c.defs[dispatch.NotificationID(id)]
	if !ok {
		return nil, common.NewValidationError(fmt.Sprintf("unsupported notification: %s", id))
	}
	if data == nil {
		data = map[string]any{}
	}
	return d.decode(data)
}

// Register registers every template in the catalog with n. Templates for
// channels n does not have are skipped.
func (c *Catalog) Register(n *dispatch.Notifier, logger *slog.Logger) error {
	for _, id := range c.IDs() {
		for _, tmpl := range c.defs[id].Templates {
			err := n.RegisterTemplate(id, tmpl)

			var unknown *dispatch.UnknownChannelError
			switch {
			case errors.As(err, &unknown):
				logger.Info("skipping template for unconfigured channel",
					"notification", id.String(),
					"template_type", fmt.Sprintf("%T", tmpl),
				)
			case err != nil:
				return fmt.Errorf("registering %s template %T: %w", id, tmpl, err)
			}
		}
	}
	return nil
}

// DecodeContact parses a request's "to" field into the contact type of the
// named channel.
func DecodeContact(channel, to string) (any, error) {
	switch channel {
	case "email":
		addr, err := email.ParseAddress(to)
		if err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("invalid email address %q", to))
		}
		return addr, nil
	case "sms":
		number, err := sms.ParsePhoneNumber(to)
		if err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("invalid phone number %q: %s", to, err))
		}
		return number, nil
	case "telegram":
		chat, err := telegram.ParseChatID(to)
		if err != nil {
			return nil, common.NewValidationError(fmt.Sprintf("invalid telegram chat id %q", to))
		}
		return chat, nil
	default:
		return nil, common.NewValidationError(fmt.Sprintf("unsupported channel: %s", channel))
	}
}

func mustTemplate(name string) string {
	b, err := templateFS.ReadFile("templates/" + name)
	if err != nil {
		panic(fmt.Sprintf("catalog: missing embedded template %s", name))
	}
	return string(b)
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return New(
		Define[Welcome](
			email.Template{
				Subject: `Welcome to {{ app_name | default: "our app" }}`,
				HTML:    dispatch.HTML(mustTemplate("welcome.html")),
			},
			sms.Template{Body: `Welcome, {{ name }}! Your account is ready.`},
			telegram.Template{Text: `Welcome, <b>{{ name | escape }}</b>! Your account is ready.`, ParseMode: telegram.ParseModeHTML},
		),
		Define[MagicLink](
			email.Template{
				Subject: "Your sign-in link",
				HTML:    dispatch.HTML(mustTemplate("magic_link.html")),
				Text:    `Sign in: {{ link }} (expires in {{ expires_in_minutes | default: 15 }} minutes)`,
			},
		),
		Define[ResetPassword](
			email.Template{
				Subject: "Reset your password",
				HTML:    dispatch.HTML(mustTemplate("reset_password.html")),
			},
			sms.Template{Body: `Reset your password: {{ reset_url }}`},
		),
		Define[LoginCode](
			sms.Template{Body: `Your login code is {{ code }}`},
			telegram.Template{Text: `Your login code is <code>{{ code }}</code>`, ParseMode: telegram.ParseModeHTML},
		),
		Define[PasswordChanged](
			email.Template{
				Subject: "Your password has been changed",
				HTML:    dispatch.HTML(mustTemplate("password_changed.html")),
			},
		),
	)
}
