package camelrow

import (
	"reflect"
	"time"
)

// DateFormat is the layout used when date attributes are serialized.
const DateFormat = "2006-01-02 15:04:05"

// layouts accepted when coercing a stored value into a time.Time
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	DateFormat,
	"2006-01-02",
}

// The Host interface is the attribute store that a Model overlays.
// All names passed to and returned by a Host are in storage form.
//
// The *Record type implements this interface.
type Host interface {
	// Attribute returns the value stored for key, and whether the key
	// was present. Values for date fields are coerced to time.Time.
	Attribute(key string) (interface{}, bool)

	// SetAttribute stores value under key.
	SetAttribute(key string, value interface{})

	// HasAttribute reports whether key is set to a non-nil value.
	HasAttribute(key string) bool

	// AttributesToArray returns the serializable attributes,
	// with hidden fields removed.
	AttributesToArray() *Attributes

	// RelationsToArray returns the serializable loaded relations.
	RelationsToArray() *Attributes

	// HiddenFields returns the hidden field list as declared.
	HiddenFields() []string

	// DateFields returns the date field list as declared.
	DateFields() []string

	// HasRelation reports whether name is a relation accessor of the entity.
	HasRelation(name string) bool

	// RelationValue returns the loaded value of the named relation.
	RelationValue(name string) (interface{}, bool)

	// SetRelation stores a loaded relation value.
	SetRelation(name string, value interface{})
}

// FieldLists provides the field lists a host uses for
// serialization, date coercion and mass assignment.
type FieldLists interface {
	Hidden() []string
	Dates() []string
	Fillable() []string
	Guarded() []string
}

// Record is an entity instance: a mapping of storage-form attribute
// names to values, plus the relations that have been loaded for it.
// A Record is not safe for concurrent use.
type Record struct {
	def        *Definition
	attributes Attributes
	original   Attributes
	relations  Attributes
	exists     bool
	fields     FieldLists
}

var _ Host = (*Record)(nil)

// NewRecord returns an empty record for the entity definition.
func NewRecord(def *Definition) *Record {
	if def == nil {
		def = &Definition{}
	}
	return &Record{def: def}
}

// Definition returns the entity definition for the record.
func (r *Record) Definition() *Definition {
	return r.def
}

// UseFieldLists replaces the declared field lists with the lists
// provided by f. A Model calls this to supply normalized lists.
func (r *Record) UseFieldLists(f FieldLists) {
	r.fields = f
}

// Exists reports whether the record has been persisted.
func (r *Record) Exists() bool {
	return r.exists
}

// Key returns the value of the primary key.
func (r *Record) Key() interface{} {
	v, _ := r.attributes.Get(r.def.primaryKey())
	return v
}

// Attribute implements the Host interface.
func (r *Record) Attribute(key string) (interface{}, bool) {
	v, ok := r.attributes.Get(key)
	if !ok {
		return nil, false
	}
	if contains(r.dates(), key) {
		if t, ok := asDate(v); ok {
			return t, true
		}
	}
	return v, true
}

// SetAttribute implements the Host interface.
func (r *Record) SetAttribute(key string, value interface{}) {
	r.attributes.Set(key, value)
}

// HasAttribute implements the Host interface.
func (r *Record) HasAttribute(key string) bool {
	v, ok := r.attributes.Get(key)
	return ok && v != nil
}

// Unset removes an attribute.
func (r *Record) Unset(key string) {
	r.attributes.Delete(key)
}

// RawAttributes returns a copy of every stored attribute, including
// hidden fields, without any coercion.
func (r *Record) RawAttributes() *Attributes {
	return r.attributes.Clone()
}

// AttributesToArray implements the Host interface.
func (r *Record) AttributesToArray() *Attributes {
	hidden := r.hidden()
	dates := r.dates()
	out := &Attributes{}
	r.attributes.Each(func(k string, v interface{}) {
		if contains(hidden, k) {
			return
		}
		if contains(dates, k) {
			if t, ok := asDate(v); ok {
				v = t.Format(DateFormat)
			}
		}
		out.Set(k, v)
	})
	return out
}

// RelationsToArray implements the Host interface. Relation names
// are reported in storage form.
func (r *Record) RelationsToArray() *Attributes {
	hidden := r.hidden()
	out := &Attributes{}
	r.relations.Each(func(name string, v interface{}) {
		key := SnakeKey(name)
		if contains(hidden, key) || contains(hidden, name) {
			return
		}
		out.Set(key, arrayValue(v))
	})
	return out
}

// ToArray returns the serializable attributes followed by
// the serializable relations.
func (r *Record) ToArray() *Attributes {
	out := r.AttributesToArray()
	r.RelationsToArray().Each(out.Set)
	return out
}

// HiddenFields implements the Host interface.
func (r *Record) HiddenFields() []string {
	return r.def.Hidden
}

// DateFields implements the Host interface. When the definition
// uses timestamps, the timestamp columns are included.
func (r *Record) DateFields() []string {
	dates := append([]string(nil), r.def.Dates...)
	if r.def.timestamps() {
		for _, name := range []string{CreatedAt, UpdatedAt} {
			if !contains(dates, name) {
				dates = append(dates, name)
			}
		}
	}
	return dates
}

// FillableFields returns the fillable field list as declared.
func (r *Record) FillableFields() []string {
	return r.def.Fillable
}

// GuardedFields returns the guarded field list as declared.
func (r *Record) GuardedFields() []string {
	return r.def.Guarded
}

func (r *Record) hidden() []string {
	if r.fields != nil {
		return r.fields.Hidden()
	}
	return r.HiddenFields()
}

func (r *Record) dates() []string {
	if r.fields != nil {
		return r.fields.Dates()
	}
	return r.DateFields()
}

func (r *Record) fillable() []string {
	if r.fields != nil {
		return r.fields.Fillable()
	}
	return r.FillableFields()
}

func (r *Record) guarded() []string {
	if r.fields != nil {
		return r.fields.Guarded()
	}
	return r.GuardedFields()
}

// IsFillable reports whether key may be mass assigned.
func (r *Record) IsFillable(key string) bool {
	guarded := r.guarded()
	if contains(guarded, "*") || contains(guarded, key) {
		return false
	}
	fillable := r.fillable()
	return len(fillable) == 0 || contains(fillable, key)
}

// Fill mass assigns attrs, skipping any attribute that is not fillable.
// It returns the names of the attributes that were skipped.
func (r *Record) Fill(attrs *Attributes) []string {
	var skipped []string
	attrs.Each(func(k string, v interface{}) {
		if !r.IsFillable(k) {
			skipped = append(skipped, k)
			return
		}
		r.attributes.Set(k, v)
	})
	return skipped
}

// ForceFill assigns attrs without checking whether they are fillable.
func (r *Record) ForceFill(attrs *Attributes) {
	attrs.Each(r.attributes.Set)
}

// HasRelation implements the Host interface. A name is a relation
// if the definition declares it or a value has been loaded for it.
func (r *Record) HasRelation(name string) bool {
	return r.def.hasRelation(name) || r.relations.Has(name)
}

// RelationValue implements the Host interface. It returns
// the relation value if it has been loaded.
func (r *Record) RelationValue(name string) (interface{}, bool) {
	return r.relations.Get(name)
}

// SetRelation implements the Host interface.
func (r *Record) SetRelation(name string, value interface{}) {
	r.relations.Set(name, value)
}

// Dirty returns the attributes that have changed since the
// record was last synchronized with the database.
func (r *Record) Dirty() *Attributes {
	dirty := &Attributes{}
	r.attributes.Each(func(k string, v interface{}) {
		orig, ok := r.original.Get(k)
		if !ok || !reflect.DeepEqual(orig, v) {
			dirty.Set(k, v)
		}
	})
	return dirty
}

// IsDirty reports whether any of the named attributes have changed.
// With no names, it reports whether any attribute has changed.
func (r *Record) IsDirty(keys ...string) bool {
	dirty := r.Dirty()
	if len(keys) == 0 {
		return dirty.Len() > 0
	}
	for _, key := range keys {
		if dirty.Has(key) {
			return true
		}
	}
	return false
}

// SyncOriginal marks the current attributes as persisted.
func (r *Record) SyncOriginal() {
	r.original = *r.attributes.Clone()
	r.exists = true
}

type arrayable interface {
	ToArray() *Attributes
}

func arrayValue(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if a, ok := v.(arrayable); ok {
		if rv := reflect.ValueOf(v); rv.Kind() == reflect.Ptr && rv.IsNil() {
			return nil
		}
		return a.ToArray()
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && rv.Type().Elem().Implements(reflect.TypeOf((*arrayable)(nil)).Elem()) {
		list := make([]*Attributes, rv.Len())
		for i := range list {
			list[i], _ = arrayValue(rv.Index(i).Interface()).(*Attributes)
		}
		return list
	}
	return v
}

func asDate(v interface{}) (time.Time, bool) {
	switch val := v.(type) {
	case time.Time:
		return val, true
	case *time.Time:
		if val != nil {
			return *val, true
		}
	case string:
		return parseDate(val)
	case []byte:
		return parseDate(string(val))
	case int64:
		return time.Unix(val, 0).UTC(), true
	case int:
		return time.Unix(int64(val), 0).UTC(), true
	}
	return time.Time{}, false
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
