package camelrow

import (
	"github.com/jjeffery/kv"
)

// Logger wraps a single method, Print, which prints a message
// for diagnostic purposes. Any implementation of this interface must
// support concurrent access by multiple goroutines.
//
// The Logger type in the standard library package "log" implements
// this interface.
type Logger interface {
	Print(v ...interface{})
}

// SQLLogger is an interface for logging SQL statements executed
// by a Store.
type SQLLogger interface {
	// LogSQL is called after the store executes an SQL query or statement.
	//
	// The query and args variables provide the query and associated arguments supplied to
	// the database server.  The rowsAffected and err variables provide a summary of the
	// query results. If the number of rows affected cannot be determined for any reason,
	// then rowsAffected is set to -1.
	LogSQL(query string, args []interface{}, rowsAffected int, err error)
}

func (s *Store) logf(msg string, keyvals ...interface{}) {
	if s.logger == nil {
		return
	}
	s.logger.Print(msg + " " + kv.List(keyvals).String())
}

func (s *Store) logSQL(query string, args []interface{}, rowsAffected int, err error) {
	if s.sqlLogger != nil {
		s.sqlLogger.LogSQL(query, args, rowsAffected, err)
	}
}
