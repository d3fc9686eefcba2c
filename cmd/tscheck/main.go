package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/kr/pretty"
	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"tscheck/pkg/driver"
	"tscheck/pkg/errors"
	"tscheck/pkg/lexer"
	"tscheck/pkg/parser"
	"tscheck/pkg/source"
)

const (
	exitOK          = 0
	exitDiagnostics = 1
	exitUsage       = 64 // command line usage error
	exitInternal    = 70 // internal software error
)

const usage = `Usage: tscheck [flags] [files...]

Checks each file and reports the first type error of every file.
Without files, the include globs of the configuration are checked.
A file named "-" is read from standard input.

Flags:
`

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("tscheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	exprFlag := fs.String("e", "", "Check the given source text and exit")
	configFlag := fs.String("config", "", "Configuration file (default: "+driver.DefaultConfigFile+" when present)")
	workersFlag := fs.Int("j", 0, "Number of files checked in parallel (default: from configuration)")
	typesFlag := fs.Bool("types", false, "Print the types of top-level bindings")
	astFlag := fs.Bool("ast", false, "Dump the AST of each file before checking")
	verboseFlag := fs.Bool("v", false, "Development logging at debug level")
	fs.Usage = func() {
		fmt.Fprint(stderr, usage)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if stderrors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}

	cfg, err := loadConfig(*configFlag)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInternal
	}
	workersSet := false
	fs.Visit(func(f *flag.Flag) { workersSet = workersSet || f.Name == "j" })
	if workersSet {
		if *workersFlag < 1 {
			fmt.Fprintf(stderr, "tscheck: -j must be at least 1, got %d\n", *workersFlag)
			return exitUsage
		}
		cfg.Workers = *workersFlag
	}
	if *verboseFlag {
		cfg.Log.Development = true
		cfg.Log.Level = "debug"
	}

	logger, err := driver.NewLogger(cfg.Log)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInternal
	}
	defer logger.Sync()
	cfg.Logger = logger

	files, code := collectSources(cfg, *exprFlag, fs.Args(), stdin, stderr)
	if code != exitOK {
		return code
	}

	if *astFlag {
		for _, file := range files {
			dumpAST(stdout, file)
		}
	}

	project, err := driver.NewProject(cfg)
	if err != nil {
		fmt.Fprintln(stderr, err)
		return exitInternal
	}
	results, err := project.Check(ctx, files)
	if err != nil {
		logger.Error("check aborted", zap.Error(err))
		fmt.Fprintf(stderr, "tscheck: %v\n", err)
		return exitInternal
	}

	failed := 0
	for _, r := range results {
		errors.DisplayErrors(stderr, r.Diagnostics)
		failed += len(r.Diagnostics)
		if *typesFlag {
			if len(results) > 1 {
				fmt.Fprintf(stdout, "// %s\n", r.File.DisplayPath())
			}
			fmt.Fprint(stdout, driver.DescribeBindings(r))
		}
	}

	p := message.NewPrinter(language.English)
	p.Fprintf(stderr, "checked %d file(s), %d error(s)\n", len(results), failed)
	logger.Debug("done", zap.Int("files", len(results)), zap.Int("diagnostics", failed))
	if failed > 0 {
		return exitDiagnostics
	}
	return exitOK
}

// loadConfig reads the configuration named by path, or the default file in
// the working directory when it exists.
func loadConfig(path string) (driver.Config, error) {
	if path != "" {
		return driver.LoadConfig(path)
	}
	if _, err := os.Stat(driver.DefaultConfigFile); err == nil {
		return driver.LoadConfig(driver.DefaultConfigFile)
	}
	return driver.DefaultConfig(), nil
}

func collectSources(cfg driver.Config, expr string, args []string, stdin io.Reader, stderr io.Writer) ([]*source.SourceFile, int) {
	if expr != "" {
		if len(args) > 0 {
			fmt.Fprintln(stderr, "tscheck: -e cannot be combined with files")
			return nil, exitUsage
		}
		return []*source.SourceFile{source.NewEvalSource(expr)}, exitOK
	}

	paths := args
	if len(paths) == 0 {
		var err error
		if paths, err = cfg.ExpandInclude(); err != nil {
			fmt.Fprintln(stderr, err)
			return nil, exitInternal
		}
	}
	if len(paths) == 0 {
		fmt.Fprint(stderr, usage)
		return nil, exitUsage
	}

	files := make([]*source.SourceFile, 0, len(paths))
	for _, path := range paths {
		if path == "-" {
			content, err := io.ReadAll(stdin)
			if err != nil {
				fmt.Fprintf(stderr, "tscheck: reading standard input: %v\n", err)
				return nil, exitInternal
			}
			files = append(files, source.NewStdinSource(string(content)))
			continue
		}
		file, err := driver.ReadSource(path)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return nil, exitInternal
		}
		files = append(files, file)
	}
	return files, exitOK
}

func dumpAST(w io.Writer, file *source.SourceFile) {
	program, _ := parser.NewParser(lexer.NewLexerWithSource(file)).ParseProgram()
	fmt.Fprintf(w, "// AST %s\n", file.DisplayPath())
	for _, stmt := range program.Statements {
		pretty.Fprintf(w, "%# v\n", stmt)
	}
}
