package dispatch

import (
	"reflect"
	"sort"
)

// ChannelRegistry owns the registered channels and indexes them by contact
// type and by user-template type. It does no locking of its own; Notifier
// serialises access.
type ChannelRegistry struct {
	channels   map[ChannelIdentity]ErasedChannel
	byContact  map[reflect.Type]ChannelIdentity
	byTemplate map[reflect.Type]ChannelIdentity
}

// NewChannelRegistry creates an empty registry.
func NewChannelRegistry() *ChannelRegistry {
	return &ChannelRegistry{
		channels:   make(map[ChannelIdentity]ErasedChannel),
		byContact:  make(map[reflect.Type]ChannelIdentity),
		byTemplate: make(map[reflect.Type]ChannelIdentity),
	}
}

// Register stores ch under its identity and indexes its contact and template
// types. A channel already registered under the same identity is replaced,
// along with its index entries; replaced reports whether that happened.
func (r *ChannelRegistry) Register(ch ErasedChannel) (replaced bool) {
	id := ch.Identity()

	if old, ok := r.channels[id]; ok {
		replaced = true
		if r.byContact[old.ContactType()] == id {
			delete(r.byContact, old.ContactType())
		}
		if r.byTemplate[old.TemplateType()] == id {
			delete(r.byTemplate, old.TemplateType())
		}
	}

	r.channels[id] = ch
	r.byContact[ch.ContactType()] = id
	r.byTemplate[ch.TemplateType()] = id
	return replaced
}

// Get returns the channel registered under id.
func (r *ChannelRegistry) Get(id ChannelIdentity) (ErasedChannel, bool) {
	ch, ok := r.channels[id]
	return ch, ok
}

// FindByContactType returns the channel whose contact type is t.
func (r *ChannelRegistry) FindByContactType(t reflect.Type) (ErasedChannel, bool) {
	id, ok := r.byContact[t]
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

// FindByTemplateType returns the channel whose user-template type is t.
func (r *ChannelRegistry) FindByTemplateType(t reflect.Type) (ErasedChannel, bool) {
	id, ok := r.byTemplate[t]
	if !ok {
		return nil, false
	}
	return r.Get(id)
}

// FindByContact returns the channel that delivers to contacts of type C.
func FindByContact[C any](r *ChannelRegistry) (ErasedChannel, bool) {
	return r.FindByContactType(reflect.TypeFor[C]())
}

// FindByTemplate returns the channel that owns user templates of type U.
func FindByTemplate[U any](r *ChannelRegistry) (ErasedChannel, bool) {
	return r.FindByTemplateType(reflect.TypeFor[U]())
}

// Identities lists registered channel identities ordered by string form.
func (r *ChannelRegistry) Identities() []ChannelIdentity {
	out := make([]ChannelIdentity, 0, len(r.channels))
	for id := range r.channels {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len returns the number of registered channels.
func (r *ChannelRegistry) Len() int {
	return len(r.channels)
}
