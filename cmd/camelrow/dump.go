package main

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"os"
	"strings"

	"github.com/jjeffery/camelrow"
	"github.com/jjeffery/errors"
	"github.com/jjeffery/kv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
)

type dumpOptions struct {
	driver  string
	dsn     string
	table   string
	config  string
	camel   bool
	verbose bool
}

// config is the layout of the definition file.
//
//	definitions:
//	  - table: users
//	    camelCase: true
//	    hidden: [apiToken]
//	    dates: [lastLoginAt]
type config struct {
	Definitions []*camelrow.Definition `yaml:"definitions"`
}

func newDumpCmd() *cobra.Command {
	var opts dumpOptions

	cmd := &cobra.Command{
		Use:   "dump",
		Short: "Print the rows of a table as JSON",
		Long: "Prints every row of a table as a JSON object per line. " +
			"Hidden fields are omitted, and keys are in application form " +
			"when case enforcement is on.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDump(cmd, &opts)
		},
	}
	opts.addFlags(cmd.Flags())
	_ = cmd.MarkFlagRequired("dsn")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}

func (opts *dumpOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&opts.driver, "driver", "d", "sqlite3", "database driver: postgres, mysql or sqlite3")
	fs.StringVar(&opts.dsn, "dsn", "", "data source name")
	fs.StringVar(&opts.table, "table", "", "table to dump")
	fs.StringVarP(&opts.config, "config", "c", "", "YAML file of entity definitions")
	fs.BoolVar(&opts.camel, "camel", false, "report keys in application form")
	fs.BoolVarP(&opts.verbose, "verbose", "v", false, "log SQL statements to stderr")
}

func runDump(cmd *cobra.Command, opts *dumpOptions) error {
	ctx := cmd.Context()

	def, err := opts.definition()
	if err != nil {
		return err
	}

	db, err := sql.Open(opts.driver, opts.dsn)
	if err != nil {
		return errors.Wrap(err, "cannot open database").With("driver", opts.driver)
	}
	defer db.Close()

	storeOpts := []camelrow.StoreOption{
		camelrow.WithDialect(camelrow.DialectFor(opts.driver)),
	}
	if opts.verbose {
		logger := log.New(cmd.ErrOrStderr(), "", 0)
		storeOpts = append(storeOpts,
			camelrow.WithLogger(logger),
			camelrow.WithSQLLogger(sqlLogger{logger: logger}),
		)
	}
	store := camelrow.NewStore(db, storeOpts...)

	recs, err := store.All(ctx, def)
	if err != nil {
		return err
	}
	var modelOpts []camelrow.ModelOption
	if opts.camel {
		modelOpts = append(modelOpts, camelrow.WithCamelCase(true))
	}
	return writeModels(cmd.OutOrStdout(), recs, modelOpts...)
}

// definition returns the definition for the table, from the
// config file if one is given.
func (opts *dumpOptions) definition() (*camelrow.Definition, error) {
	if opts.config == "" {
		return &camelrow.Definition{Table: opts.table}, nil
	}
	f, err := os.Open(opts.config)
	if err != nil {
		return nil, errors.Wrap(err, "cannot open config")
	}
	defer f.Close()
	cfg, err := readConfig(f)
	if err != nil {
		return nil, errors.Wrap(err, "cannot read config").With("file", opts.config)
	}
	for _, def := range cfg.Definitions {
		if def != nil && def.Table == opts.table {
			return def, nil
		}
	}
	return &camelrow.Definition{Table: opts.table}, nil
}

func readConfig(r io.Reader) (*config, error) {
	var cfg config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && err != io.EOF {
		return nil, err
	}
	return &cfg, nil
}

func writeModels(w io.Writer, recs []*camelrow.Record, opts ...camelrow.ModelOption) error {
	enc := json.NewEncoder(w)
	for _, rec := range recs {
		if err := enc.Encode(camelrow.Wrap(rec, opts...)); err != nil {
			return errors.Wrap(err, "cannot encode row").With("key", rec.Key())
		}
	}
	return nil
}

type sqlLogger struct {
	logger *log.Logger
}

func (l sqlLogger) LogSQL(query string, args []interface{}, rowsAffected int, err error) {
	keyvals := kv.List{"rows", rowsAffected}
	if len(args) > 0 {
		keyvals = append(keyvals, "args", args)
	}
	if err != nil {
		keyvals = append(keyvals, "error", err)
	}
	l.logger.Print(strings.TrimSpace(query) + " " + keyvals.String())
}
