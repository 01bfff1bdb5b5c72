// Command lace converts Lace configuration files to JSON or YAML.
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goccy/go-yaml"
	"github.com/urfave/cli/v2"

	lace "github.com/lace-lang/go"
)

// Exit statuses. Each failure class gets its own code so callers can tell
// a missing input apart from a bad document.
const (
	exitMissingInput = 1
	exitParseError   = 2
	exitFailure      = 3
)

func main() {
	// Flag errors and other failures surfaced by app.Run itself (rather
	// than by run) exit with the general failure code.
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitFailure)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "lace",
		Usage: "convert a Lace configuration file to JSON or YAML",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "input",
				Aliases:  []string{"i"},
				Required: true,
				Usage:    "path to the input file",
			},
			&cli.StringFlag{
				Name:     "output",
				Aliases:  []string{"o"},
				Required: true,
				Usage:    "path to the output file",
			},
			&cli.StringFlag{
				Name:    "format",
				Aliases: []string{"f"},
				Value:   "json",
				Usage:   "output format: json or yaml",
			},
		},
		Action: run,
	}
}

func run(c *cli.Context) error {
	input := c.String("input")
	output := c.String("output")

	data, err := os.ReadFile(input)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return cli.Exit(fmt.Sprintf("error: input file %s not found", input), exitMissingInput)
		}
		return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
	}

	doc, err := lace.NewParser().Parse(string(data))
	if err != nil {
		return cli.Exit(fmt.Sprintf("parse error: %v", err), exitParseError)
	}

	out, err := encode(doc, c.String("format"))
	if err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
	}

	// The output file is only touched after a fully successful parse and
	// encode; a bad document leaves no partial output behind.
	if err := os.WriteFile(output, out, 0o644); err != nil {
		return cli.Exit(fmt.Sprintf("error: %v", err), exitFailure)
	}

	fmt.Fprintf(c.App.Writer, "configuration written to %s\n", output)
	return nil
}

// encode serializes the document in the requested format. Both formats
// keep entry order and the integer/float distinction from the source.
func encode(doc *lace.Document, format string) ([]byte, error) {
	switch format {
	case "json":
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(out, '\n'), nil
	case "yaml":
		return yaml.Marshal(asMapSlice(doc))
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

// asMapSlice converts a document to an order-preserving YAML mapping.
func asMapSlice(doc *lace.Document) yaml.MapSlice {
	m := make(yaml.MapSlice, 0, doc.Len())
	for _, e := range doc.Entries {
		m = append(m, yaml.MapItem{Key: e.Key, Value: yamlValue(e.Value)})
	}
	return m
}

// yamlValue maps Lace variants onto plain Go values for the YAML encoder.
func yamlValue(v lace.Value) any {
	switch v := v.(type) {
	case lace.Int:
		return int64(v)
	case lace.Float:
		return float64(v)
	case lace.Text:
		return string(v)
	case lace.Bareword:
		return string(v)
	case lace.Array:
		items := make([]any, len(v))
		for i, item := range v {
			items[i] = yamlValue(item)
		}
		return items
	default:
		return v
	}
}
