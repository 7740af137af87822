package camelrow

import (
	"context"
)

// The Persister interface provides the host persistence operations
// that a Repo delegates to. Attribute names passed to a Persister
// are always in storage form.
//
// The *Store type implements this interface.
type Persister interface {
	Find(ctx context.Context, def *Definition, id interface{}) (*Record, error)
	First(ctx context.Context, def *Definition, where *Attributes) (*Record, error)
	Create(ctx context.Context, def *Definition, attrs *Attributes) (*Record, error)
	ForceCreate(ctx context.Context, def *Definition, attrs *Attributes) (*Record, error)
	FirstOrCreate(ctx context.Context, def *Definition, attrs, values *Attributes) (*Record, error)
	FirstOrNew(ctx context.Context, def *Definition, attrs, values *Attributes) (*Record, error)
	UpdateOrCreate(ctx context.Context, def *Definition, attrs, values *Attributes) (*Record, error)
}

// Repo creates and looks up models of one entity type. Attribute
// mappings supplied to a Repo may use application-form names; they
// are converted to storage form before being passed to the persister.
type Repo struct {
	persister Persister
	def       *Definition
	opts      []ModelOption
}

// NewRepo returns a repo for models of type def. The options are
// applied to every model the repo returns.
//
// The field lists of def are normalized to storage form in the copy of
// the definition handed to the persister, so that mass assignment
// matches the intended fields whichever casing they were declared in.
func NewRepo(persister Persister, def *Definition, opts ...ModelOption) *Repo {
	normalized := *def
	normalized.Hidden = snakeKeys(def.Hidden)
	normalized.Dates = snakeKeys(def.Dates)
	normalized.Fillable = snakeKeys(def.Fillable)
	normalized.Guarded = snakeKeys(def.Guarded)
	if normalized.PrimaryKey != "" {
		normalized.PrimaryKey = SnakeKey(normalized.PrimaryKey)
	}
	return &Repo{
		persister: persister,
		def:       &normalized,
		opts:      opts,
	}
}

// Definition returns the normalized definition used by the repo.
func (r *Repo) Definition() *Definition {
	return r.def
}

// New returns a new, unsaved model.
func (r *Repo) New() *Model {
	return New(r.def, r.opts...)
}

// Find returns the model whose primary key is id, or nil if there is none.
func (r *Repo) Find(ctx context.Context, id interface{}) (*Model, error) {
	return r.wrap(r.persister.Find(ctx, r.def, id))
}

// First returns the first model matching every attribute in where,
// or nil if there is none.
func (r *Repo) First(ctx context.Context, where *Attributes) (*Model, error) {
	return r.wrap(r.persister.First(ctx, r.def, ToSnakeCase(where)))
}

// Create creates a model from the fillable attributes in attrs.
func (r *Repo) Create(ctx context.Context, attrs *Attributes) (*Model, error) {
	return r.wrap(r.persister.Create(ctx, r.def, ToSnakeCase(attrs)))
}

// ForceCreate creates a model from every attribute in attrs,
// whether fillable or not.
func (r *Repo) ForceCreate(ctx context.Context, attrs *Attributes) (*Model, error) {
	return r.wrap(r.persister.ForceCreate(ctx, r.def, ToSnakeCase(attrs)))
}

// FirstOrCreate returns the first model matching attrs, creating
// one from attrs and values if there is none. The values may be nil.
func (r *Repo) FirstOrCreate(ctx context.Context, attrs, values *Attributes) (*Model, error) {
	return r.wrap(r.persister.FirstOrCreate(ctx, r.def, ToSnakeCase(attrs), ToSnakeCase(values)))
}

// FirstOrNew returns the first model matching attrs, or an unsaved
// model filled with attrs and values if there is none. The values
// may be nil.
func (r *Repo) FirstOrNew(ctx context.Context, attrs, values *Attributes) (*Model, error) {
	return r.wrap(r.persister.FirstOrNew(ctx, r.def, ToSnakeCase(attrs), ToSnakeCase(values)))
}

// UpdateOrCreate updates the first model matching attrs with values,
// creating one from attrs and values if there is none. Both mappings
// are converted to storage form.
func (r *Repo) UpdateOrCreate(ctx context.Context, attrs, values *Attributes) (*Model, error) {
	return r.wrap(r.persister.UpdateOrCreate(ctx, r.def, ToSnakeCase(attrs), ToSnakeCase(values)))
}

func (r *Repo) wrap(rec *Record, err error) (*Model, error) {
	if err != nil || rec == nil {
		return nil, err
	}
	return Wrap(rec, r.opts...), nil
}
