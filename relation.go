package camelrow

import (
	"context"
	"strings"

	"github.com/jjeffery/camelrow/private/naming"
	"github.com/jjeffery/errors"
)

// A Relation resolves the models related to a parent model.
// Relations are declared by name in a Definition and loaded
// with Store.Load.
type Relation interface {
	Resolve(ctx context.Context, store *Store, parent *Model) (interface{}, error)
}

// HasMany relates a parent to the models whose foreign key refers to it.
// It resolves to a []*Model.
type HasMany struct {
	Related    *Definition
	ForeignKey string // column in the related table
	LocalKey   string // column in the parent table, defaults to its primary key
}

// Resolve implements the Relation interface.
func (rel HasMany) Resolve(ctx context.Context, store *Store, parent *Model) (interface{}, error) {
	localKey := rel.LocalKey
	if localKey == "" {
		localKey = parent.Definition().primaryKey()
	}
	id, ok := parent.Host().Attribute(localKey)
	if !ok {
		return nil, errors.New("missing local key").With("key", localKey)
	}
	recs, err := store.Where(ctx, rel.Related, Attrs(rel.ForeignKey, id))
	if err != nil {
		return nil, err
	}
	models := make([]*Model, len(recs))
	for i, rec := range recs {
		models[i] = Wrap(rec)
	}
	return models, nil
}

// BelongsTo relates a model to the parent its foreign key refers to.
// It resolves to a *Model, or nil if the foreign key is not set.
type BelongsTo struct {
	Related    *Definition
	ForeignKey string // column in the child table
	OwnerKey   string // column in the related table, defaults to its primary key
}

// Resolve implements the Relation interface.
func (rel BelongsTo) Resolve(ctx context.Context, store *Store, child *Model) (interface{}, error) {
	ownerKey := rel.OwnerKey
	if ownerKey == "" {
		ownerKey = rel.Related.primaryKey()
	}
	id, ok := child.Host().Attribute(rel.ForeignKey)
	if !ok || id == nil {
		return nil, nil
	}
	rec, err := store.First(ctx, rel.Related, Attrs(ownerKey, id))
	if err != nil || rec == nil {
		return nil, err
	}
	return Wrap(rec), nil
}

// BelongsToMany relates a model to other models through a linking table.
// It resolves to a []*Model. Each related model has a "pivot" relation
// holding a model of the linking row, whose parent is the model that
// owns the relation, so it reports case enforcement whenever the owner does.
type BelongsToMany struct {
	Related         *Definition
	Table           string   // linking table
	ForeignPivotKey string   // linking column that refers to the parent
	RelatedPivotKey string   // linking column that refers to the related model
	PivotColumns    []string // other linking columns to retrieve
}

// Resolve implements the Relation interface.
func (rel BelongsToMany) Resolve(ctx context.Context, store *Store, parent *Model) (interface{}, error) {
	id, ok := parent.Host().Attribute(parent.Definition().primaryKey())
	if !ok {
		return nil, errors.New("missing primary key").With("table", parent.Definition().Table)
	}
	query, args := rel.query(store.newBuilder(), id)
	rows, err := store.query(ctx, query, args)
	if err != nil {
		return nil, errors.Wrap(err, "cannot query related records").With("table", rel.Related.Table)
	}
	pivotDef := &Definition{Table: rel.Table}
	models := make([]*Model, 0, len(rows))
	for _, attrs := range rows {
		rec := NewRecord(rel.Related)
		pivotRec := NewRecord(pivotDef)
		attrs.Each(func(k string, v interface{}) {
			if naming.IsPivot(k) {
				pivotRec.SetAttribute(strings.TrimPrefix(k, PivotPrefix), v)
				return
			}
			rec.SetAttribute(k, v)
		})
		rec.SyncOriginal()
		pivotRec.SyncOriginal()
		m := Wrap(rec)
		m.SetRelation("pivot", Wrap(pivotRec, WithParent(parent)))
		models = append(models, m)
	}
	return models, nil
}

func (rel BelongsToMany) query(b *builder, id interface{}) (string, []interface{}) {
	pivotCols := append([]string{rel.ForeignPivotKey, rel.RelatedPivotKey}, rel.PivotColumns...)
	b.write("select ")
	b.ident(rel.Related.Table)
	b.write(".*")
	for _, col := range pivotCols {
		b.write(",")
		b.ident(rel.Table + "." + col)
		b.write(" as ")
		b.ident(PivotPrefix + col)
	}
	b.write(" from ")
	b.ident(rel.Related.Table)
	b.write(" inner join ")
	b.ident(rel.Table)
	b.write(" on ")
	b.ident(rel.Related.Table + "." + rel.Related.primaryKey())
	b.write("=")
	b.ident(rel.Table + "." + rel.RelatedPivotKey)
	b.write(" where ")
	b.ident(rel.Table + "." + rel.ForeignPivotKey)
	b.write("=")
	b.arg(id)
	b.write(" order by ")
	b.ident(rel.Related.Table + "." + rel.Related.primaryKey())
	return b.String(), b.args
}
