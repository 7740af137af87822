// Package dialect handles differences in various
// SQL dialects.
package dialect

import (
	"database/sql"
	"fmt"
	"reflect"
	"strings"
)

// Dialect handles the differences in SQL dialects that matter
// when building statements from attribute names.
type Dialect struct {
	name        string
	altnames    []string
	driverTypes []string
	quote       func(name string) string
	placeholder func(n int) string
}

// Name of the dialect.
func (d *Dialect) Name() string {
	return d.name
}

// Quote a table name or column name so that it does
// not clash with any reserved words. The SQL-99 standard
// specifies double quotes (eg "table_name"), but many
// dialects, including MySQL use the backtick (eg `table_name`).
// SQL server uses square brackets (eg [table_name]).
func (d *Dialect) Quote(name string) string {
	if d.quote == nil {
		return name
	}
	return d.quote(name)
}

// Placeholder returns the placeholder for binding the nth
// variable value, starting at 1. Most SQL dialects support a single
// question mark (?), but PostgreSQL uses numbered placeholders (eg $1).
func (d *Dialect) Placeholder(n int) string {
	if d.placeholder == nil {
		return "?"
	}
	return d.placeholder(n)
}

// HasReturning reports whether the dialect supports an
// "insert ... returning" clause for retrieving generated keys.
func (d *Dialect) HasReturning() bool {
	return d == Postgres
}

// Pre-defined dialects.
var (
	ANSI     = &Dialect{name: "ansi", quote: quoteFunc(`"`, `"`)}
	MySQL    = &Dialect{name: "mysql", driverTypes: []string{"*mysql.MySQLDriver"}, quote: quoteFunc("`", "`")}
	SQLite   = &Dialect{name: "sqlite", altnames: []string{"sqlite3"}, driverTypes: []string{"*sqlite3.SQLiteDriver"}, quote: quoteFunc("`", "`")}
	MSSQL    = &Dialect{name: "mssql", altnames: []string{"sqlserver"}, quote: quoteFunc("[", "]")}
	Postgres = &Dialect{
		name:        "postgres",
		altnames:    []string{"pq", "postgresql", "pgx"},
		driverTypes: []string{"*pq.Driver", "pq.Driver"},
		quote:       quoteFunc(`"`, `"`),
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
)

var dialects = map[string]*Dialect{}

func init() {
	for _, d := range []*Dialect{ANSI, MySQL, SQLite, MSSQL, Postgres} {
		dialects[d.name] = d
		for _, altname := range d.altnames {
			dialects[altname] = d
		}
	}
}

// For returns a dialect for the specified database driver.
// If name is blank, then the dialect returned is for the first
// driver returned by sql.Drivers(). If the driver name is
// unknown, the ANSI dialect is returned.
//
// Supported dialects include:
//
//  name      alternative names
//  ----      -----------------
//  mssql     sqlserver
//  mysql
//  postgres  pq, postgresql, pgx
//  sqlite    sqlite3
func For(name string) *Dialect {
	if name == "" {
		if drivers := sql.Drivers(); len(drivers) > 0 {
			name = drivers[0]
		}
	}
	name = strings.TrimSpace(strings.ToLower(name))
	if d, ok := dialects[name]; ok {
		return d
	}
	return ANSI
}

// ForDB returns the dialect matching the driver of an open DB handle.
// If the driver is not recognized, the dialect for the first registered
// driver is returned.
func ForDB(db *sql.DB) *Dialect {
	if db != nil {
		if drv := db.Driver(); drv != nil {
			typeName := reflect.TypeOf(drv).String()
			for _, d := range []*Dialect{Postgres, MySQL, SQLite} {
				for _, driverType := range d.driverTypes {
					if typeName == driverType {
						return d
					}
				}
			}
		}
	}
	return For("")
}

func quoteFunc(begin string, end string) func(name string) string {
	return func(name string) string {
		var names []string
		for _, n := range strings.Split(name, ".") {
			n = strings.TrimLeft(n, "\"`[ \t"+begin)
			n = strings.TrimRight(n, "\"`] \t"+end)
			names = append(names, begin+n+end)
		}
		return strings.Join(names, ".")
	}
}
