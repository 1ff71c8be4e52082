package main

import (
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	feel "github.com/omnixs/orion"
	"github.com/omnixs/orion/dmn"
	"github.com/omnixs/orion/internal/conf"
)

const (
	appName    = "orion"
	promptMain = "==> "
	promptCont = "... "
)

var banner = fmt.Sprintf("Orion %s FEEL REPL\nCtrl+C cancels input, Ctrl+D exits. Type :quit to exit.", feel.Version)

func red(s string) string  { return "\x1b[31m" + s + "\x1b[0m" }
func blue(s string) string { return "\x1b[94m" + s + "\x1b[0m" }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "eval":
		os.Exit(cmdEval(os.Args[2:]))
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(feel.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`Orion %s

Usage:
  %s eval <expression> [--context <file>]   Evaluate a FEEL expression.
  %s run <model.dmn> [--context <file>]     Evaluate every decision in a DMN model.
  %s repl                                   Start the interactive FEEL REPL.
  %s version                                Print the compiled version.

The context file may be JSON or YAML and must hold a top-level mapping of
variable names to values.

`, feel.Version, appName, appName, appName, appName)
}

func newLogger(cfg *conf.Config) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("bad log level %q: %w", cfg.LogLevel, err)
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(lvl)
	zc.OutputPaths = []string{"stderr"}
	return zc.Build()
}

// loadContext reads a JSON or YAML mapping file into an evaluation context.
// The format is picked by extension, with JSON as the fallback for unknown
// extensions since every JSON document is also valid YAML.
func loadContext(path string) (feel.Context, error) {
	if path == "" {
		return feel.Context{}, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read context %s: %w", path, err)
	}

	var m map[string]any
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("cannot parse context %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(raw, &m); err != nil {
			return nil, fmt.Errorf("cannot parse context %s: %w", path, err)
		}
	}
	return feel.ContextFromAny(m), nil
}

// -----------------------------------------------------------------------------
// eval
// -----------------------------------------------------------------------------

func cmdEval(args []string) int {
	fs := flag.NewFlagSet("eval", flag.ContinueOnError)
	ctxFile := fs.String("context", "", "JSON or YAML context file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s eval <expression> [--context <file>]\n", appName)
		return 2
	}

	ctx, err := loadContext(*ctxFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	v, err := feel.EvalExpression(fs.Arg(0), ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(feel.WrapErrorWithSource(err, fs.Arg(0)).Error()))
		return 1
	}
	fmt.Println(feel.FormatValue(v))
	return 0
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	ctxFile := fs.String("context", "", "JSON or YAML context file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run <model.dmn> [--context <file>]\n", appName)
		return 2
	}
	file := fs.Arg(0)

	cfg, err := conf.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	log, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	defer func() { _ = log.Sync() }()

	raw, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ctx, err := loadContext(*ctxFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	eng := dmn.NewEngine(dmn.WithLogger(log), dmn.WithMaxBKMDepth(cfg.MaxBKMDepth))
	if err := eng.LoadModel(raw); err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	out, err := eng.Evaluate(ctx)
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}
	fmt.Println(feel.FormatValue(out))
	return 0
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(_ []string) int {
	fmt.Println(banner)

	cfg, err := conf.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, red(err.Error()))
		return 1
	}

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, cfg.HistoryFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ctx := feel.Context{}

	for {
		line, err := ln.Prompt(promptMain)
		if errors.Is(err, io.EOF) {
			fmt.Println()
			break
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			continue
		}
		if err != nil {
			fmt.Fprintln(os.Stderr, red(err.Error()))
			break
		}

		code := strings.TrimSpace(line)
		if code == "" {
			continue
		}

		if strings.HasPrefix(code, ":") {
			if !replCommand(code, ctx) {
				return 0
			}
			continue
		}

		// "name := expr" binds a variable in the session context.
		if name, expr, ok := splitBinding(code); ok {
			v, err := feel.EvalExpression(expr, ctx)
			if err != nil {
				fmt.Fprintln(os.Stderr, red(feel.WrapErrorWithSource(err, expr).Error()))
				continue
			}
			ctx[name] = v
			fmt.Println(blue(feel.FormatValue(v)))
			ln.AppendHistory(line)
			continue
		}

		v, err := feel.EvalExpression(code, ctx)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(feel.WrapErrorWithSource(err, code).Error()))
			continue
		}
		fmt.Println(blue(feel.FormatValue(v)))
		ln.AppendHistory(line)
	}

	return 0
}

// replCommand handles ":" commands. Returns false when the REPL should exit.
func replCommand(code string, ctx feel.Context) bool {
	switch strings.ToLower(code) {
	case ":quit", ":q":
		return false
	case ":vars":
		if len(ctx) == 0 {
			fmt.Println("(empty)")
			return true
		}
		obj := feel.Obj(ctx)
		fmt.Println(blue(feel.FormatValue(obj)))
		return true
	case ":clear":
		for k := range ctx {
			delete(ctx, k)
		}
		return true
	default:
		fmt.Println("unknown command. Type :quit to exit.")
		return true
	}
}

// splitBinding recognizes "name := expr" at the top level of a REPL line.
// The name may be a spaced FEEL identifier; it just cannot contain ':'.
func splitBinding(code string) (name, expr string, ok bool) {
	i := strings.Index(code, ":=")
	if i <= 0 {
		return "", "", false
	}
	name = strings.TrimSpace(code[:i])
	expr = strings.TrimSpace(code[i+2:])
	if name == "" || expr == "" {
		return "", "", false
	}
	for _, r := range name {
		if !isNameRune(r) {
			return "", "", false
		}
	}
	return name, expr, true
}

func isNameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == '_' || r == ' ':
		return true
	}
	return false
}
