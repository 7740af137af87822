package camelrow

import (
	"github.com/jjeffery/camelrow/private/dialect"
)

// Dialect is an interface used to handle differences
// in SQL dialects.
type Dialect interface {
	// Name of the dialect.
	Name() string

	// Quote a table name or column name so that it does
	// not clash with any reserved words. The SQL-99 standard
	// specifies double quotes (eg "table_name"), but many
	// dialects, including MySQL use the backtick (eg `table_name`).
	// SQL server uses square brackets (eg [table_name]).
	Quote(name string) string

	// Return the placeholder for binding a variable value.
	// Most SQL dialects support a single question mark (?), but
	// PostgreSQL uses numbered placeholders (eg $1).
	Placeholder(n int) string
}

// Pre-defined dialects
var (
	Postgres Dialect = dialect.Postgres // Quote: "column_name", Placeholders: $1, $2, $3
	MySQL    Dialect = dialect.MySQL    // Quote: `column_name`, Placeholders: ?, ?, ?
	MSSQL    Dialect = dialect.MSSQL    // Quote: [column_name], Placeholders: ?, ?, ?
	SQLite   Dialect = dialect.SQLite   // Quote: `column_name`, Placeholders: ?, ?, ?
	ANSISQL  Dialect = dialect.ANSI     // Quote: "column_name", Placeholders: ?, ?, ?
)

// DialectFor returns the dialect for a database driver name, such
// as "postgres" or "sqlite3". If name is blank, the dialect for the
// first registered driver is returned.
func DialectFor(name string) Dialect {
	return dialect.For(name)
}

// hasReturning reports whether the dialect can return generated
// keys from an insert statement.
func hasReturning(d Dialect) bool {
	r, ok := d.(interface{ HasReturning() bool })
	return ok && r.HasReturning()
}

// hasTop reports whether the dialect limits rows with "select top n".
func hasTop(d Dialect) bool {
	return d.Name() == dialect.MSSQL.Name()
}
