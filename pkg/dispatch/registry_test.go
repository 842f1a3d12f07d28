package dispatch_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"notifier/pkg/dispatch"
)

func TestChannelRegistry_Indexes(t *testing.T) {
	r := dispatch.NewChannelRegistry()
	ch := newRecordingChannel("primary")

	assert.False(t, r.Register(ch.Erased()))

	byContact, ok := dispatch.FindByContact[testContact](r)
	require.True(t, ok)
	assert.Equal(t, ch.Identity(), byContact.Identity())

	byTemplate, ok := dispatch.FindByTemplate[testTemplate](r)
	require.True(t, ok)
	assert.Equal(t, ch.Identity(), byTemplate.Identity())

	got, ok := r.Get(ch.Identity())
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[testContact](), got.ContactType())
	assert.Equal(t, reflect.TypeFor[testTemplate](), got.TemplateType())

	_, ok = dispatch.FindByContact[pagerContact](r)
	assert.False(t, ok)
	_, ok = dispatch.FindByTemplate[altTemplate](r)
	assert.False(t, ok)
}

func TestChannelRegistry_ReplaceDropsStaleIndexes(t *testing.T) {
	r := dispatch.NewChannelRegistry()
	ch := newRecordingChannel("primary")

	require.False(t, r.Register(ch.Erased()))
	require.True(t, r.Register(altChannel{ch}.Erased()))

	assert.Equal(t, 1, r.Len())

	_, ok := dispatch.FindByTemplate[testTemplate](r)
	assert.False(t, ok, "old template type should no longer resolve")

	alt, ok := dispatch.FindByTemplate[altTemplate](r)
	require.True(t, ok)
	assert.Equal(t, ch.Identity(), alt.Identity())

	_, ok = dispatch.FindByContact[testContact](r)
	assert.True(t, ok)
}

func TestIdentityOf(t *testing.T) {
	a := dispatch.IdentityOf[*testMessage, testContact]()
	b := dispatch.IdentityOf[*testMessage, testContact]()
	c := dispatch.IdentityOf[*testMessage, pagerContact]()

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.False(t, a.IsZero())
	assert.True(t, dispatch.ChannelIdentity{}.IsZero())
	assert.Equal(t, "<none>", dispatch.ChannelIdentity{}.String())
	assert.Equal(t, "*dispatch_test.testMessage|dispatch_test.testContact", a.String())
	assert.Equal(t, reflect.TypeFor[testContact](), a.ContactType())
}
