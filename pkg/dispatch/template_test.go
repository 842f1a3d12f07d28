package dispatch_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/pkg/dispatch"
	"notifier/pkg/engine/liquid"
)

func TestNewRenderContext(t *testing.T) {
	ctx, err := dispatch.NewRenderContext(resetNotification{Name: "Ada", Code: 7})
	require.NoError(t, err)
	assert.Equal(t, "Ada", ctx["name"])
	assert.EqualValues(t, 7, ctx["code"])

	ctx, err = dispatch.NewRenderContext(nil)
	require.NoError(t, err)
	assert.NotNil(t, ctx)
	assert.Empty(t, ctx)

	_, err = dispatch.NewRenderContext("just a string")
	var engineErr *dispatch.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, "context", engineErr.Op)
}

func TestMarkup_Preprocess(t *testing.T) {
	out, err := dispatch.HTML("<p>{{ name }}</p>").Preprocess(nil)
	require.NoError(t, err)
	assert.Equal(t, "<p>{{ name }}</p>", out)

	_, err = dispatch.MJML("<mjml></mjml>").Preprocess(nil)
	var engineErr *dispatch.EngineError
	require.True(t, errors.As(err, &engineErr))
	assert.Equal(t, "preprocess", engineErr.Op)

	upper := dispatch.PreprocessorFunc(func(s string) (string, error) {
		return strings.ToUpper(s), nil
	})
	out, err = dispatch.MJML("<mjml></mjml>").Preprocess(upper)
	require.NoError(t, err)
	assert.Equal(t, "<MJML></MJML>", out)

	assert.Equal(t, "mjml", dispatch.MarkupMJML.String())
}

func TestTemplateHandle(t *testing.T) {
	assert.True(t, dispatch.TemplateHandle{}.IsZero())
	a, b := dispatch.NewTemplateHandle(), dispatch.NewTemplateHandle()
	assert.False(t, a.IsZero())
	assert.NotEqual(t, a, b)
}

func TestPutTemplate_ReleasesReplacedHandles(t *testing.T) {
	engine := liquid.NewEngine()
	ts := dispatch.NewTemplateService(engine)
	id := dispatch.IdentityOf[*testMessage, testContact]()

	first, err := ts.Compile("one")
	require.NoError(t, err)
	ts.PutTemplate("welcome", id, first)

	// Storing the same handle again keeps it alive.
	ts.PutTemplate("welcome", id, first)
	assert.Equal(t, 1, engine.Len())

	second, err := ts.Compile("two")
	require.NoError(t, err)
	ts.PutTemplate("welcome", id, second)
	assert.Equal(t, 1, engine.Len())

	_, err = ts.RenderTemplate(first, dispatch.RenderContext{})
	assert.Error(t, err)

	out, err := ts.RenderTemplate(second, dispatch.RenderContext{})
	require.NoError(t, err)
	assert.Equal(t, "two", out)
}

func TestRegisterNotification_ReplacingReleasesEngineTemplates(t *testing.T) {
	engine := liquid.NewEngine()
	n := dispatch.New(engine)
	require.NoError(t, n.RegisterChannel(newRecordingChannel("primary").Erased()))

	for range 3 {
		err := dispatch.RegisterNotification[welcomeNotification](n, testTemplate{Subject: "Hi {{name}}", Body: "b"})
		require.NoError(t, err)
	}
	assert.Equal(t, 2, engine.Len())
}
