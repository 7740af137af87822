package camelrow

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/jjeffery/camelrow/private/dialect"
	"github.com/jjeffery/errors"
	"github.com/jmoiron/sqlx"
)

// Store persists records in a SQL database. All attribute names that
// pass through a Store are in storage form. Use a Repo to create and
// look up models using application-form names.
//
// A Store is safe for concurrent use if its Querier is.
type Store struct {
	querier   Querier
	dialect   Dialect
	logger    Logger
	sqlLogger SQLLogger
	now       func() time.Time
}

var _ Persister = (*Store)(nil)

// A StoreOption provides optional configuration when creating a Store.
type StoreOption func(s *Store)

// ForDB creates an option that sets the dialect for the open DB handle.
func ForDB(db *sql.DB) StoreOption {
	return func(s *Store) {
		s.dialect = dialect.ForDB(db)
	}
}

// WithDialect provides an option that sets the store's dialect.
func WithDialect(d Dialect) StoreOption {
	return func(s *Store) {
		s.dialect = d
	}
}

// WithLogger provides an option that sets a logger for diagnostic messages.
func WithLogger(logger Logger) StoreOption {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithSQLLogger provides an option that sets a logger for every SQL
// statement executed by the store.
func WithSQLLogger(logger SQLLogger) StoreOption {
	return func(s *Store) {
		s.sqlLogger = logger
	}
}

// WithClock provides an option that sets the function used to
// obtain the current time for timestamp columns.
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore returns a store that executes statements using querier.
// If querier is a *sql.DB, the dialect is inferred from its driver.
// Otherwise the dialect should be specified with WithDialect.
func NewStore(querier Querier, opts ...StoreOption) *Store {
	if querier == nil {
		panic("querier cannot be nil")
	}
	s := &Store{
		querier: querier,
		now:     time.Now,
	}
	if db, ok := querier.(*sql.DB); ok {
		s.dialect = dialect.ForDB(db)
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.dialect == nil {
		s.dialect = DialectFor("")
	}
	return s
}

// Dialect returns the SQL dialect used by the store.
func (s *Store) Dialect() Dialect {
	return s.dialect
}

// Find returns the record whose primary key is id, or nil if there is none.
func (s *Store) Find(ctx context.Context, def *Definition, id interface{}) (*Record, error) {
	return s.First(ctx, def, Attrs(def.primaryKey(), id))
}

// First returns the first record matching every attribute in where,
// or nil if there is none.
func (s *Store) First(ctx context.Context, def *Definition, where *Attributes) (*Record, error) {
	if err := checkTable(def); err != nil {
		return nil, err
	}
	b := s.newBuilder()
	if hasTop(s.dialect) {
		b.write("select top 1 * from ")
	} else {
		b.write("select * from ")
	}
	b.ident(def.Table)
	b.where(where)
	if !hasTop(s.dialect) {
		b.write(" limit 1")
	}
	recs, err := s.selectRecords(ctx, def, b.String(), b.args)
	if err != nil {
		return nil, errors.Wrap(err, "cannot query record").With("table", def.Table)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return recs[0], nil
}

// Where returns every record matching every attribute in where,
// ordered by primary key.
func (s *Store) Where(ctx context.Context, def *Definition, where *Attributes) ([]*Record, error) {
	if err := checkTable(def); err != nil {
		return nil, err
	}
	b := s.newBuilder()
	b.write("select * from ")
	b.ident(def.Table)
	b.where(where)
	b.write(" order by ")
	b.ident(def.primaryKey())
	recs, err := s.selectRecords(ctx, def, b.String(), b.args)
	if err != nil {
		return nil, errors.Wrap(err, "cannot query records").With("table", def.Table)
	}
	return recs, nil
}

// All returns every record in the table, ordered by primary key.
func (s *Store) All(ctx context.Context, def *Definition) ([]*Record, error) {
	return s.Where(ctx, def, nil)
}

// Insert inserts the record. If the primary key is not set, it is
// updated with the key generated by the database.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	def := rec.Definition()
	if err := checkTable(def); err != nil {
		return err
	}
	if def.timestamps() {
		now := s.now()
		for _, name := range []string{CreatedAt, UpdatedAt} {
			if !rec.HasAttribute(name) {
				rec.SetAttribute(name, now)
			}
		}
	}
	pk := def.primaryKey()
	attrs := rec.RawAttributes()
	if !rec.HasAttribute(pk) {
		attrs.Delete(pk)
	}
	if attrs.Len() == 0 {
		return errors.New("cannot insert record with no attributes").With("table", def.Table)
	}

	b := s.newBuilder()
	b.write("insert into ")
	b.ident(def.Table)
	b.write("(")
	for i, key := range attrs.Keys() {
		if i > 0 {
			b.write(",")
		}
		b.ident(key)
	}
	b.write(") values(")
	i := 0
	attrs.Each(func(_ string, v interface{}) {
		if i > 0 {
			b.write(",")
		}
		b.arg(v)
		i++
	})
	b.write(")")

	switch {
	case rec.HasAttribute(pk):
		if _, err := s.exec(ctx, b.String(), b.args); err != nil {
			return errors.Wrap(err, "cannot insert record").With("table", def.Table)
		}
	case hasReturning(s.dialect):
		b.write(" returning ")
		b.ident(pk)
		id, err := s.queryValue(ctx, b.String(), b.args)
		if err != nil {
			return errors.Wrap(err, "cannot insert record").With("table", def.Table)
		}
		rec.SetAttribute(pk, id)
	default:
		result, err := s.exec(ctx, b.String(), b.args)
		if err != nil {
			return errors.Wrap(err, "cannot insert record").With("table", def.Table)
		}
		id, err := result.LastInsertId()
		if err != nil {
			return errors.Wrap(err, "cannot retrieve last insert id").With("table", def.Table)
		}
		rec.SetAttribute(pk, id)
	}
	rec.SyncOriginal()
	return nil
}

// Update updates the columns of a persisted record that have changed
// since it was loaded or saved. It returns the number of rows affected,
// which is zero if nothing has changed.
func (s *Store) Update(ctx context.Context, rec *Record) (int, error) {
	def := rec.Definition()
	if err := checkTable(def); err != nil {
		return 0, err
	}
	if !rec.Exists() {
		return 0, errors.New("cannot update record that has not been inserted").With("table", def.Table)
	}
	dirty := rec.Dirty()
	if dirty.Len() == 0 {
		return 0, nil
	}
	if def.timestamps() && !dirty.Has(UpdatedAt) {
		now := s.now()
		rec.SetAttribute(UpdatedAt, now)
		dirty.Set(UpdatedAt, now)
	}
	pk := def.primaryKey()
	id, ok := rec.original.Get(pk)
	if !ok {
		id = rec.Key()
	}

	b := s.newBuilder()
	b.write("update ")
	b.ident(def.Table)
	b.write(" set ")
	i := 0
	dirty.Each(func(k string, v interface{}) {
		if i > 0 {
			b.write(",")
		}
		b.ident(k)
		b.write("=")
		b.arg(v)
		i++
	})
	b.where(Attrs(pk, id))

	result, err := s.exec(ctx, b.String(), b.args)
	if err != nil {
		return 0, errors.Wrap(err, "cannot update record").With("table", def.Table, "id", id)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "cannot retrieve rows affected").With("table", def.Table, "id", id)
	}
	rec.SyncOriginal()
	return int(n), nil
}

// Save inserts the record if it has not been persisted, otherwise
// it updates the columns that have changed.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.Exists() {
		_, err := s.Update(ctx, rec)
		return err
	}
	return s.Insert(ctx, rec)
}

// Delete deletes a persisted record by its primary key, returning the
// number of rows affected.
func (s *Store) Delete(ctx context.Context, rec *Record) (int, error) {
	def := rec.Definition()
	if err := checkTable(def); err != nil {
		return 0, err
	}
	id := rec.Key()
	b := s.newBuilder()
	b.write("delete from ")
	b.ident(def.Table)
	b.where(Attrs(def.primaryKey(), id))
	result, err := s.exec(ctx, b.String(), b.args)
	if err != nil {
		return 0, errors.Wrap(err, "cannot delete record").With("table", def.Table, "id", id)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Wrap(err, "cannot retrieve rows affected").With("table", def.Table, "id", id)
	}
	rec.exists = false
	return int(n), nil
}

// Create mass assigns the fillable attributes to a new record and inserts it.
func (s *Store) Create(ctx context.Context, def *Definition, attrs *Attributes) (*Record, error) {
	rec := s.newFilled(def, attrs)
	if err := s.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// ForceCreate assigns every attribute to a new record, fillable
// or not, and inserts it.
func (s *Store) ForceCreate(ctx context.Context, def *Definition, attrs *Attributes) (*Record, error) {
	rec := NewRecord(def)
	rec.ForceFill(attrs)
	if err := s.Insert(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// FirstOrNew returns the first record matching attrs. If there is none,
// it returns a new record filled with attrs and values, which has not
// been inserted.
func (s *Store) FirstOrNew(ctx context.Context, def *Definition, attrs, values *Attributes) (*Record, error) {
	rec, err := s.First(ctx, def, attrs)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.newFilled(def, merge(attrs, values)), nil
}

// FirstOrCreate returns the first record matching attrs. If there is none,
// it creates a record from attrs and values.
func (s *Store) FirstOrCreate(ctx context.Context, def *Definition, attrs, values *Attributes) (*Record, error) {
	rec, err := s.First(ctx, def, attrs)
	if err != nil || rec != nil {
		return rec, err
	}
	return s.Create(ctx, def, merge(attrs, values))
}

// UpdateOrCreate fills the first record matching attrs with values and
// saves it. If there is no matching record, one is created from attrs
// and values.
func (s *Store) UpdateOrCreate(ctx context.Context, def *Definition, attrs, values *Attributes) (*Record, error) {
	rec, err := s.FirstOrNew(ctx, def, attrs, nil)
	if err != nil {
		return nil, err
	}
	s.fill(rec, values)
	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Load resolves the named relations of m and stores the
// results on the model.
func (s *Store) Load(ctx context.Context, m *Model, names ...string) error {
	def := m.Definition()
	for _, name := range names {
		var rel Relation
		if def != nil {
			rel = def.Relations[name]
		}
		if rel == nil {
			return errors.New("unknown relation").With("relation", name)
		}
		v, err := rel.Resolve(ctx, s, m)
		if err != nil {
			return errors.Wrap(err, "cannot load relation").With("relation", name)
		}
		m.SetRelation(name, v)
	}
	return nil
}

func (s *Store) newFilled(def *Definition, attrs *Attributes) *Record {
	rec := NewRecord(def)
	s.fill(rec, attrs)
	return rec
}

func (s *Store) fill(rec *Record, attrs *Attributes) {
	if skipped := rec.Fill(attrs); len(skipped) > 0 {
		s.logf("ignored attributes that are not fillable",
			"table", rec.Definition().Table,
			"attributes", strings.Join(skipped, ","),
		)
	}
}

func (s *Store) selectRecords(ctx context.Context, def *Definition, query string, args []interface{}) ([]*Record, error) {
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	recs := make([]*Record, 0, len(rows))
	for _, attrs := range rows {
		rec := NewRecord(def)
		rec.ForceFill(attrs)
		rec.SyncOriginal()
		recs = append(recs, rec)
	}
	return recs, nil
}

func (s *Store) exec(ctx context.Context, query string, args []interface{}) (sql.Result, error) {
	result, err := s.querier.ExecContext(ctx, query, args...)
	rowsAffected := -1
	if err == nil {
		if n, err := result.RowsAffected(); err == nil {
			rowsAffected = int(n)
		}
	}
	s.logSQL(query, args, rowsAffected, err)
	return result, err
}

// query returns the rows of a query as attributes, keeping the
// column order of the result set.
func (s *Store) query(ctx context.Context, query string, args []interface{}) ([]*Attributes, error) {
	rows, err := s.querier.QueryContext(ctx, query, args...)
	if err != nil {
		s.logSQL(query, args, -1, err)
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		s.logSQL(query, args, -1, err)
		return nil, err
	}
	var list []*Attributes
	for rows.Next() {
		m := make(map[string]interface{}, len(cols))
		if err := sqlx.MapScan(rows, m); err != nil {
			s.logSQL(query, args, -1, err)
			return nil, err
		}
		attrs := &Attributes{}
		for _, col := range cols {
			attrs.Set(col, scannedValue(m[col]))
		}
		list = append(list, attrs)
	}
	err = rows.Err()
	s.logSQL(query, args, len(list), err)
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (s *Store) queryValue(ctx context.Context, query string, args []interface{}) (interface{}, error) {
	rows, err := s.query(ctx, query, args)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 || rows[0].Len() == 0 {
		return nil, errors.New("no value returned")
	}
	v, _ := rows[0].Get(rows[0].Keys()[0])
	return v, nil
}

// scannedValue converts driver text values to strings, so that
// attributes do not alias driver buffers.
func scannedValue(v interface{}) interface{} {
	if b, ok := v.([]byte); ok {
		return string(b)
	}
	return v
}

func merge(attrs, values *Attributes) *Attributes {
	out := attrs.Clone()
	values.Each(out.Set)
	return out
}

func checkTable(def *Definition) error {
	if def == nil || def.Table == "" {
		return errors.New("table not specified")
	}
	return nil
}

// builder accumulates an SQL statement and its arguments.
type builder struct {
	dialect Dialect
	sb      strings.Builder
	args    []interface{}
}

func (s *Store) newBuilder() *builder {
	return &builder{dialect: s.dialect}
}

func (b *builder) write(text string) {
	b.sb.WriteString(text)
}

func (b *builder) ident(name string) {
	b.sb.WriteString(b.dialect.Quote(name))
}

func (b *builder) arg(v interface{}) {
	b.args = append(b.args, v)
	b.sb.WriteString(b.dialect.Placeholder(len(b.args)))
}

func (b *builder) where(attrs *Attributes) {
	i := 0
	attrs.Each(func(k string, v interface{}) {
		if i == 0 {
			b.write(" where ")
		} else {
			b.write(" and ")
		}
		b.ident(k)
		if v == nil {
			b.write(" is null")
		} else {
			b.write("=")
			b.arg(v)
		}
		i++
	})
}

func (b *builder) String() string {
	return b.sb.String()
}
