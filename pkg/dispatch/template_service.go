package dispatch

import (
	"reflect"
	"sort"
)

type templateKey struct {
	notification NotificationID
	channel      ChannelIdentity
}

// TemplateRegistry stores compiled-template records keyed by notification and
// channel. Records are opaque here; each channel stores and reads back its own
// record type.
type TemplateRegistry struct {
	records       map[templateKey]any
	notifications map[NotificationID]map[ChannelIdentity]struct{}
}

// NewTemplateRegistry creates an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{
		records:       make(map[templateKey]any),
		notifications: make(map[NotificationID]map[ChannelIdentity]struct{}),
	}
}

// Put stores record for (id, channel), replacing any previous record.
func (r *TemplateRegistry) Put(id NotificationID, channel ChannelIdentity, record any) {
	set, ok := r.notifications[id]
	if !ok {
		set = make(map[ChannelIdentity]struct{})
		r.notifications[id] = set
	}
	set[channel] = struct{}{}
	r.records[templateKey{notification: id, channel: channel}] = record
}

// Lookup returns the record stored for (id, channel).
func (r *TemplateRegistry) Lookup(id NotificationID, channel ChannelIdentity) (any, bool) {
	record, ok := r.records[templateKey{notification: id, channel: channel}]
	return record, ok
}

// Channels lists the channels that have a template for id, ordered by their
// string form.
func (r *TemplateRegistry) Channels(id NotificationID) []ChannelIdentity {
	set := r.notifications[id]
	out := make([]ChannelIdentity, 0, len(set))
	for ch := range set {
		out = append(out, ch)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}

// Len returns the number of stored records.
func (r *TemplateRegistry) Len() int {
	return len(r.records)
}

// TemplateService pairs the template engine with the template registry. It
// is the only component that handles compiled-template handles.
type TemplateService struct {
	engine   Engine
	registry *TemplateRegistry
}

// NewTemplateService creates a template service backed by engine.
func NewTemplateService(engine Engine) *TemplateService {
	return &TemplateService{
		engine:   engine,
		registry: NewTemplateRegistry(),
	}
}

// Engine returns the underlying engine.
func (s *TemplateService) Engine() Engine {
	return s.engine
}

// Registry returns the underlying registry.
func (s *TemplateService) Registry() *TemplateRegistry {
	return s.registry
}

// Compile compiles source with the engine.
func (s *TemplateService) Compile(source string) (TemplateHandle, error) {
	h, err := s.engine.Compile(source)
	if err != nil {
		return TemplateHandle{}, NewEngineError("compile", err)
	}
	return h, nil
}

// RenderTemplate renders handle against ctx with the engine.
func (s *TemplateService) RenderTemplate(handle TemplateHandle, ctx RenderContext) (string, error) {
	out, err := s.engine.Render(handle, ctx)
	if err != nil {
		return "", NewEngineError("render", err)
	}
	return out, nil
}

// PutTemplate stores a channel's compiled-template record. When it replaces
// a record that implements HandleSet, the old handles not reused by record
// are released from an engine that implements Forgetter.
func (s *TemplateService) PutTemplate(id NotificationID, channel ChannelIdentity, record any) {
	old, replaced := s.registry.Lookup(id, channel)
	s.registry.Put(id, channel, record)
	if !replaced {
		return
	}

	stale, ok := old.(HandleSet)
	if !ok {
		return
	}
	keep := make(map[TemplateHandle]struct{})
	if current, ok := record.(HandleSet); ok {
		for _, h := range current.TemplateHandles() {
			keep[h] = struct{}{}
		}
	}
	for _, h := range stale.TemplateHandles() {
		if _, ok := keep[h]; !ok {
			s.Forget(h)
		}
	}
}

// Forget releases handles from the engine, if it supports that. Channels call
// it for handles compiled before a registration failed part way.
func (s *TemplateService) Forget(handles ...TemplateHandle) {
	f, ok := s.engine.(Forgetter)
	if !ok {
		return
	}
	for _, h := range handles {
		if !h.IsZero() {
			f.Forget(h)
		}
	}
}

// GetTemplate fetches the record stored for (id, channel) as a T. It fails
// with TemplateNotFoundError when nothing is stored and DowncastError when the
// stored record is not a T.
func GetTemplate[T any](s *TemplateService, id NotificationID, channel ChannelIdentity) (T, error) {
	var zero T

	record, ok := s.registry.Lookup(id, channel)
	if !ok {
		return zero, NewTemplateNotFoundError(id, channel)
	}

	tmpl, ok := record.(T)
	if !ok {
		return zero, &DowncastError{
			Expected: reflect.TypeFor[T](),
			Found:    reflect.TypeOf(record),
			Context:  "compiled template record",
		}
	}
	return tmpl, nil
}
