package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/vegasq/maskql/frame"
	"github.com/vegasq/maskql/mask"
	"github.com/vegasq/maskql/output"
	"github.com/vegasq/maskql/query"
)

// bindingList collects repeated -b flags
type bindingList []string

func (b *bindingList) String() string {
	return strings.Join(*b, ",")
}

func (b *bindingList) Set(value string) error {
	*b = append(*b, value)
	return nil
}

var (
	filterFlag   = flag.String("q", "", "Filter expression (e.g. \"carat > env.min_carat and cut = 'Ideal'\")")
	selectFlag   = flag.String("s", "", "Comma-separated selectors (e.g. \"carat, data[var], upper(cut)\")")
	deriveFlag   = flag.String("derive", "", "Derived column as name=expression (e.g. \"cut_upper=upper(cut)\")")
	bindingsFile = flag.String("bindings", "", "YAML file with environment bindings")
	formatFlag   = flag.String("f", "jsonl", "Output format: jsonl, csv, table")
	limitFlag    = flag.Int("limit", 0, "Limit number of rows (0 = unlimited)")
	schemaFlag   = flag.Bool("schema", false, "Show schema information instead of data")
	verboseFlag  = flag.Bool("v", false, "Verbose logging to stderr")

	bindingFlags bindingList
)

func main() {
	flag.Var(&bindingFlags, "b", "Environment binding as name=value (repeatable)")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [options] <file.parquet|file.csv>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Filter and project data frames with mask expressions.\n\n")
		fmt.Fprintf(os.Stderr, "Bare names in expressions resolve against the frame's columns first,\n")
		fmt.Fprintf(os.Stderr, "then against the bindings. Use the data. and env. pronouns to force one\n")
		fmt.Fprintf(os.Stderr, "namespace, and data[name] to select a column named by a binding.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s diamonds.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -b min_carat=1 -q \"carat >= env.min_carat\" diamonds.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s -b var=carat -s \"data[var], cut\" -f table diamonds.parquet\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --bindings session.yaml -q \"price < env.budget\" diamonds.csv\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s --schema diamonds.parquet\n", os.Args[0])
	}

	flag.Parse()

	logger := zap.NewNop()
	if *verboseFlag {
		var err error
		logger, err = zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to create logger: %v\n", err)
			os.Exit(1)
		}
	}
	defer func() { _ = logger.Sync() }()

	if *limitFlag < 0 {
		fmt.Fprintf(os.Stderr, "Error: -limit must be non-negative, got %d\n", *limitFlag)
		os.Exit(1)
	}
	if *schemaFlag && (*filterFlag != "" || *selectFlag != "" || *deriveFlag != "") {
		fmt.Fprintf(os.Stderr, "Error: --schema cannot be combined with -q, -s, or -derive\n")
		os.Exit(1)
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Error: missing data file argument\n\n")
		flag.Usage()
		os.Exit(1)
	}
	filename := flag.Arg(0)

	env, err := buildBindings(*bindingsFile, bindingFlags)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	logger.Debug("bindings ready", zap.Int("count", len(env)))

	f, err := frame.LoadGlob(filename)
	if err != nil {
		if os.IsNotExist(err) {
			fmt.Fprintf(os.Stderr, "Error: file '%s' not found\n", filename)
			fmt.Fprintf(os.Stderr, "Please check the file path and try again.\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
	logger.Debug("frame loaded",
		zap.String("frame", f.ID()),
		zap.String("source", f.Source()),
		zap.Int("rows", f.Len()),
		zap.Int("columns", len(f.Columns())))

	if *schemaFlag {
		if err := printSchema(f, *formatFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if *filterFlag != "" {
		expr, err := query.Parse(*filterFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing filter: %v\n", err)
			os.Exit(1)
		}
		f, err = query.Filter(f, expr, env)
		if err != nil {
			reportEvalError(err)
			os.Exit(1)
		}
		logger.Debug("filter applied", zap.String("frame", f.ID()), zap.Int("rows", f.Len()))
	}

	if *deriveFlag != "" {
		name, exprStr, ok := strings.Cut(*deriveFlag, "=")
		if !ok || strings.TrimSpace(name) == "" {
			fmt.Fprintf(os.Stderr, "Error: -derive must have the form name=expression\n")
			os.Exit(1)
		}
		expr, err := query.ParseSelectors(exprStr)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing -derive expression: %v\n", err)
			os.Exit(1)
		}
		if len(expr) != 1 {
			fmt.Fprintf(os.Stderr, "Error: -derive takes exactly one expression\n")
			os.Exit(1)
		}
		f, err = query.Derive(f, strings.TrimSpace(name), expr[0], env)
		if err != nil {
			reportEvalError(err)
			os.Exit(1)
		}
		logger.Debug("column derived", zap.String("frame", f.ID()), zap.String("column", strings.TrimSpace(name)))
	}

	if *selectFlag != "" {
		selectors, err := query.ParseSelectors(*selectFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error parsing selectors: %v\n", err)
			os.Exit(1)
		}
		f, err = query.Select(f, selectors, env)
		if err != nil {
			reportEvalError(err)
			os.Exit(1)
		}
		logger.Debug("selection applied", zap.String("frame", f.ID()), zap.Strings("columns", f.Columns()))
	}

	if *limitFlag > 0 {
		f = f.Head(*limitFlag)
	}

	formatter, err := newFormatter(*formatFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := formatter.Format(f.Columns(), f.Rows()); err != nil {
		fmt.Fprintf(os.Stderr, "Error formatting output: %v\n", err)
		os.Exit(1)
	}
}

// buildBindings merges the YAML bindings file with -b flags; flags win
func buildBindings(path string, flags bindingList) (mask.Bindings, error) {
	var fromFile mask.Bindings
	if path != "" {
		var err error
		fromFile, err = mask.LoadBindingsFile(path)
		if err != nil {
			return nil, err
		}
	}

	fromFlags := make(mask.Bindings, len(flags))
	for _, pair := range flags {
		name, value, err := mask.ParseBinding(pair)
		if err != nil {
			return nil, err
		}
		fromFlags[name] = value
	}

	return mask.Merge(fromFile, fromFlags), nil
}

// newFormatter selects the output formatter for -f
func newFormatter(format string) (output.Formatter, error) {
	switch format {
	case "jsonl", "json":
		return output.NewJSONFormatter(os.Stdout), nil
	case "csv":
		return output.NewCSVFormatter(os.Stdout), nil
	case "table":
		return output.NewTableFormatter(os.Stdout), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s (want jsonl, csv, or table)", format)
	}
}

// printSchema renders the frame's schema in the requested format
func printSchema(f *frame.Frame, format string) error {
	rows := make([]map[string]interface{}, 0, len(f.Columns()))
	for _, info := range f.Schema() {
		rows = append(rows, map[string]interface{}{
			"name": info.Name,
			"type": info.Type,
		})
	}

	formatter, err := newFormatter(format)
	if err != nil {
		return err
	}
	return formatter.Format([]string{"name", "type"}, rows)
}

// reportEvalError prints an evaluation error, spelling out the namespaces a
// failed lookup searched so shadowing mistakes are visible
func reportEvalError(err error) {
	var nf *mask.NotFoundError
	if errors.As(err, &nf) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if len(nf.Searched) > 1 {
			fmt.Fprintf(os.Stderr, "Use the data. or env. pronoun to say which namespace you meant.\n")
		}
		return
	}
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
}
