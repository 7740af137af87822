package camelrow

// Definition describes an entity type: the table it is stored in and
// the field lists that govern serialization, date coercion and mass
// assignment. Field lists may be declared in either application form
// or storage form. When the entity is accessed through a Model, they
// are normalized to storage form before the record uses them.
//
// A Definition should be treated as read-only once records have been
// created from it.
type Definition struct {
	// Table is the name of the database table.
	Table string `yaml:"table"`

	// PrimaryKey is the name of the primary key column.
	// If not specified, "id" is used.
	PrimaryKey string `yaml:"primaryKey"`

	// CamelCase sets the default for case enforcement on
	// models of this type. When enforcement is active, attribute
	// names are reported in application form.
	CamelCase bool `yaml:"camelCase"`

	// Hidden lists attributes omitted when a record is serialized.
	Hidden []string `yaml:"hidden"`

	// Dates lists attributes whose values are coerced to time.Time
	// when read, and formatted when serialized.
	Dates []string `yaml:"dates"`

	// Fillable lists the attributes that may be mass assigned.
	// If empty, every attribute not guarded may be mass assigned.
	Fillable []string `yaml:"fillable"`

	// Guarded lists attributes that may not be mass assigned.
	// A single entry of "*" guards every attribute.
	Guarded []string `yaml:"guarded"`

	// Timestamps indicates that the table has created_at and updated_at
	// columns that are maintained automatically.
	Timestamps bool `yaml:"timestamps"`

	// Relations is the set of named relation accessors for the entity.
	// Names are matched exactly, and are never case converted.
	Relations map[string]Relation `yaml:"-"`
}

// Names of the columns maintained when Timestamps is set.
const (
	CreatedAt = "created_at"
	UpdatedAt = "updated_at"
)

func (d *Definition) primaryKey() string {
	if d == nil || d.PrimaryKey == "" {
		return "id"
	}
	return d.PrimaryKey
}

func (d *Definition) hasRelation(name string) bool {
	if d == nil {
		return false
	}
	_, ok := d.Relations[name]
	return ok
}

func (d *Definition) timestamps() bool {
	return d != nil && d.Timestamps
}
