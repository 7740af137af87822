package camelrow

import (
	"encoding/json"

	"github.com/jjeffery/camelrow/private/naming"
)

// A CaseReporter reports whether case enforcement is active.
// A Model can be linked to any CaseReporter as its parent.
type CaseReporter interface {
	IsCamelCase() bool
}

// Model is the case adapter. It overlays a Host, converting attribute
// names from application form to storage form on the way in, and
// from storage form to application form on the way out when case
// enforcement is active. The host's stored names are never changed.
//
// Like the Host it overlays, a Model is not safe for concurrent use.
type Model struct {
	host      Host
	camelCase bool
	parent    CaseReporter
}

var (
	_ CaseReporter = (*Model)(nil)
	_ FieldLists   = (*Model)(nil)
)

// A ModelOption provides optional configuration when creating a Model.
type ModelOption func(m *Model)

// WithCamelCase sets whether case enforcement is active for the model,
// overriding the default from its definition.
func WithCamelCase(enforce bool) ModelOption {
	return func(m *Model) {
		m.camelCase = enforce
	}
}

// WithParent links the model to a governing parent. The model reports
// case enforcement whenever the parent does.
func WithParent(parent CaseReporter) ModelOption {
	return func(m *Model) {
		m.parent = parent
	}
}

// New returns a model overlaying a new, empty record for def.
func New(def *Definition, opts ...ModelOption) *Model {
	return Wrap(NewRecord(def), opts...)
}

// Wrap returns a model overlaying host. If the host has a Definition,
// its CamelCase setting is the default for case enforcement. If the
// host accepts field lists, the model supplies its normalized lists.
func Wrap(host Host, opts ...ModelOption) *Model {
	m := &Model{host: host}
	if d, ok := host.(interface{ Definition() *Definition }); ok && d.Definition() != nil {
		m.camelCase = d.Definition().CamelCase
	}
	for _, opt := range opts {
		opt(m)
	}
	if u, ok := host.(interface{ UseFieldLists(FieldLists) }); ok {
		u.UseFieldLists(m)
	}
	return m
}

// Host returns the host that the model overlays.
func (m *Model) Host() Host {
	return m.host
}

// Record returns the host record, or nil if the host is not a *Record.
func (m *Model) Record() *Record {
	r, _ := m.host.(*Record)
	return r
}

// Definition returns the entity definition, or nil if the host
// does not have one.
func (m *Model) Definition() *Definition {
	if d, ok := m.host.(interface{ Definition() *Definition }); ok {
		return d.Definition()
	}
	return nil
}

// SetAttribute stores value under the storage form of name.
func (m *Model) SetAttribute(name string, value interface{}) {
	m.host.SetAttribute(SnakeKey(name), value)
}

// GetAttribute returns the value for name. If name is a relation
// accessor of the entity, the loaded relation is returned and name
// is not case converted. Otherwise the value stored under the storage
// form of name is returned. The second result is false if there is no
// such attribute or the relation has not been loaded.
func (m *Model) GetAttribute(name string) (interface{}, bool) {
	if m.host.HasRelation(name) {
		return m.host.RelationValue(name)
	}
	return m.host.Attribute(SnakeKey(name))
}

// IsSet reports whether name is set to a non-nil value, whichever
// casing name uses. A relation is set once it has been loaded.
func (m *Model) IsSet(name string) bool {
	if m.host.HasRelation(name) {
		v, ok := m.host.RelationValue(name)
		return ok && v != nil
	}
	return m.host.HasAttribute(SnakeKey(name))
}

// Attributes is equivalent to AttributesToArray.
func (m *Model) Attributes() *Attributes {
	return m.AttributesToArray()
}

// AttributesToArray returns the host's serializable attributes with
// every name passed through TrueKey. Hidden fields are omitted.
func (m *Model) AttributesToArray() *Attributes {
	return m.ToCamelCase(m.host.AttributesToArray())
}

// RelationsToArray returns the host's loaded relations with
// every name passed through TrueKey.
func (m *Model) RelationsToArray() *Attributes {
	return m.ToCamelCase(m.host.RelationsToArray())
}

// ToArray returns the attributes followed by the loaded relations.
func (m *Model) ToArray() *Attributes {
	out := m.AttributesToArray()
	m.RelationsToArray().Each(out.Set)
	return out
}

// MarshalJSON implements json.Marshaler.
func (m *Model) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.ToArray())
}

// Hidden returns the declared hidden fields in storage form.
func (m *Model) Hidden() []string {
	return snakeKeys(m.host.HiddenFields())
}

// Dates returns the declared date fields in storage form.
func (m *Model) Dates() []string {
	return snakeKeys(m.host.DateFields())
}

// Fillable returns the declared fillable fields in storage form.
func (m *Model) Fillable() []string {
	if h, ok := m.host.(interface{ FillableFields() []string }); ok {
		return snakeKeys(h.FillableFields())
	}
	return nil
}

// Guarded returns the declared guarded fields in storage form.
func (m *Model) Guarded() []string {
	if h, ok := m.host.(interface{ GuardedFields() []string }); ok {
		return snakeKeys(h.GuardedFields())
	}
	return nil
}

// Fill mass assigns attrs after converting the names to storage form.
// Attributes that are not fillable are skipped, and their storage-form
// names are returned. A host that does not support mass assignment
// accepts every attribute.
func (m *Model) Fill(attrs *Attributes) []string {
	attrs = ToSnakeCase(attrs)
	if f, ok := m.host.(interface{ Fill(*Attributes) []string }); ok {
		return f.Fill(attrs)
	}
	attrs.Each(m.host.SetAttribute)
	return nil
}

// ForceFill assigns attrs after converting the names to storage form,
// without checking whether they are fillable.
func (m *Model) ForceFill(attrs *Attributes) {
	ToSnakeCase(attrs).Each(m.host.SetAttribute)
}

// ToCamelCase returns a new mapping with every key passed through TrueKey.
func (m *Model) ToCamelCase(attrs *Attributes) *Attributes {
	return attrs.MapKeys(m.TrueKey)
}

// TrueKey returns the name that application code sees for a storage-form
// key. Pivot names are returned unchanged. Otherwise the key is
// converted to application form if case enforcement is active.
func (m *Model) TrueKey(key string) string {
	if naming.IsPivot(key) {
		return key
	}
	if m.IsCamelCase() {
		return naming.CamelCase.Convert(key)
	}
	return key
}

// IsCamelCase reports whether case enforcement is active: either the
// model's own flag is set, or it is linked to a parent that reports
// case enforcement.
func (m *Model) IsCamelCase() bool {
	if m.camelCase {
		return true
	}
	return m.parent != nil && m.parent.IsCamelCase()
}

// SetCamelCase sets the model's own case enforcement flag.
func (m *Model) SetCamelCase(enforce bool) {
	m.camelCase = enforce
}

// Parent returns the governing parent, or nil.
func (m *Model) Parent() CaseReporter {
	return m.parent
}

// SetParent links the model to a governing parent.
func (m *Model) SetParent(parent CaseReporter) {
	m.parent = parent
}

// Relation returns the loaded value of a relation. The name is
// matched exactly.
func (m *Model) Relation(name string) (interface{}, bool) {
	return m.host.RelationValue(name)
}

// SetRelation stores a loaded relation value.
func (m *Model) SetRelation(name string, value interface{}) {
	m.host.SetRelation(name, value)
}

// Exists reports whether the underlying record has been persisted.
func (m *Model) Exists() bool {
	if r := m.Record(); r != nil {
		return r.Exists()
	}
	return false
}

// IsDirty reports whether any of the named attributes have changed since
// the model was loaded or saved. With no names, it reports whether any
// attribute has changed.
func (m *Model) IsDirty(names ...string) bool {
	r := m.Record()
	if r == nil {
		return false
	}
	return r.IsDirty(snakeKeys(names)...)
}
