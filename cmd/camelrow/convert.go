package main

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/jjeffery/camelrow"
	"github.com/jjeffery/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type convertOptions struct {
	to       string
	jsonMode bool
}

func newConvertCmd() *cobra.Command {
	var opts convertOptions

	cmd := &cobra.Command{
		Use:   "convert [keys...]",
		Short: "Convert attribute names",
		Long: "Converts each key given as an argument, printing one per line. " +
			"With --json, a JSON object is read from standard input and written " +
			"with its keys converted, keeping their order.",
		RunE: func(cmd *cobra.Command, args []string) error {
			convert, err := opts.converter()
			if err != nil {
				return err
			}
			if opts.jsonMode {
				if len(args) > 0 {
					return errors.New("keys cannot be given with --json")
				}
				return convertJSON(cmd.InOrStdin(), cmd.OutOrStdout(), convert)
			}
			for _, arg := range args {
				fmt.Fprintln(cmd.OutOrStdout(), convert(arg))
			}
			return nil
		},
	}
	opts.addFlags(cmd.Flags())
	return cmd
}

func (opts *convertOptions) addFlags(fs *pflag.FlagSet) {
	fs.StringVarP(&opts.to, "to", "t", "camel", "target form: camel or snake")
	fs.BoolVar(&opts.jsonMode, "json", false, "convert the keys of a JSON object read from stdin")
}

func (opts *convertOptions) converter() (func(string) string, error) {
	switch opts.to {
	case "camel":
		return camelrow.CamelKey, nil
	case "snake":
		return camelrow.SnakeKey, nil
	}
	return nil, errors.New("unknown target form").With("to", opts.to)
}

func convertJSON(r io.Reader, w io.Writer, convert func(string) string) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return errors.Wrap(err, "cannot read input")
	}
	var attrs camelrow.Attributes
	if err := json.Unmarshal(data, &attrs); err != nil {
		return errors.Wrap(err, "cannot decode input")
	}
	out, err := json.Marshal(attrs.MapKeys(convert))
	if err != nil {
		return errors.Wrap(err, "cannot encode output")
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
