package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	gojson "github.com/goccy/go-json"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/codemix/modeling"
	"github.com/codemix/modeling/i18n"
	"github.com/codemix/modeling/schemafile"
)

// errInvalid reports rejected input; the result itself is already printed.
var errInvalid = errors.New("input rejected")

type globalOptions struct {
	file    string
	model   string
	lang    string
	verbose bool

	stdin          io.Reader
	stdout, stderr io.Writer
}

func (g *globalOptions) logf(format string, a ...any) {
	if g.verbose {
		fmt.Fprintf(g.stderr, format+"\n", a...)
	}
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	g := &globalOptions{stdin: stdin, stdout: stdout, stderr: stderr}
	root := &cobra.Command{
		Use:           "modeling",
		Short:         "Inspect schema files and validate data against their models",
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if g.lang != "" {
				i18n.SetLanguage(g.lang)
				g.logf("language: %s", g.lang)
			}
			return nil
		},
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	pf := root.PersistentFlags()
	pf.StringVarP(&g.file, "file", "f", "", "schema file (YAML or JSON)")
	pf.StringVarP(&g.model, "model", "m", "", "model name (defaults to the first model in the file)")
	pf.StringVar(&g.lang, "lang", "", "message language (en, ja)")
	pf.BoolVarP(&g.verbose, "verbose", "v", false, "enable verbose logs")

	root.AddCommand(newDescribeCmd(g), newJSONSchemaCmd(g), newInputCmd(g))
	return root
}

func newDescribeCmd(g *globalOptions) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "describe",
		Short: "Print the static document of a model",
		Example: `  # Describe the first model of a file
  modeling describe -f people.yaml

  # Describe a named model as YAML
  modeling describe -f people.yaml -m Person -o yaml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := g.load()
			if err != nil {
				return err
			}
			switch output {
			case "json":
				return writeJSON(g.stdout, m)
			case "yaml":
				return writeYAML(g.stdout, m)
			}
			return fmt.Errorf("unknown output format %q (want json or yaml)", output)
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "json", "Output format (json, yaml)")
	return cmd
}

func newJSONSchemaCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "jsonschema",
		Short: "Print the JSON Schema projection of a model",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			m, err := g.load()
			if err != nil {
				return err
			}
			s, err := m.JSONSchema()
			if err != nil {
				return err
			}
			return writeJSON(g.stdout, s)
		},
	}
}

type inputOutput struct {
	Valid  bool               `json:"valid"`
	Value  *modeling.Instance `json:"value"`
	Errors map[string]string  `json:"errors,omitempty"`
}

func newInputCmd(g *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "input [DATA_FILE]",
		Short: "Run the input acceptor on a JSON object",
		Long: `Cast and validate a JSON object against a model. The data is read from
DATA_FILE, or from standard input when it is omitted or "-". The command
exits non-zero when the input is rejected.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := g.load()
			if err != nil {
				return err
			}
			data, err := g.readData(args)
			if err != nil {
				return err
			}
			values, err := modeling.DecodeValues(data)
			if err != nil {
				return fmt.Errorf("decoding input: %w", err)
			}
			res, err := m.Input(values)
			if err != nil {
				return err
			}
			g.logf("input: model=%s valid=%v issues=%d", m.Name(), res.Valid, len(res.Issues))
			for _, it := range res.Issues {
				g.logf("  %s %s: %s", it.Code, it.Path, it.Message)
			}
			if err := writeJSON(g.stdout, inputOutput{Valid: res.Valid, Value: res.Value, Errors: res.Errors}); err != nil {
				return err
			}
			if !res.Valid {
				return errInvalid
			}
			return nil
		},
	}
}

// load reads the schema file and picks the requested model.
func (g *globalOptions) load() (*modeling.Model, error) {
	if g.file == "" {
		return nil, errors.New("a schema file is required (-f)")
	}
	dir, name := filepath.Split(g.file)
	if dir == "" {
		dir = "."
	}
	g.logf("loading %s", g.file)
	set, err := schemafile.LoadFS(os.DirFS(dir), name)
	if err != nil {
		return nil, err
	}
	g.logf("models: %v", set.Names())
	if g.model == "" {
		if set.Len() == 0 {
			return nil, fmt.Errorf("%s declares no models", g.file)
		}
		g.model = set.Names()[0]
	}
	m, ok := set.Get(g.model)
	if !ok {
		return nil, fmt.Errorf("model %q not found in %s", g.model, g.file)
	}
	return m, nil
}

func (g *globalOptions) readData(args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		g.logf("reading input from stdin")
		return io.ReadAll(g.stdin)
	}
	g.logf("reading input from %s", args[0])
	return os.ReadFile(args[0])
}

func writeJSON(w io.Writer, v any) error {
	data, err := gojson.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
