package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/phyten/spellmask/internal/aspell"
	"github.com/phyten/spellmask/internal/config"
	"github.com/phyten/spellmask/internal/debuglog"
	"github.com/phyten/spellmask/internal/execx"
	"github.com/phyten/spellmask/internal/extract"
)

const usage = `usage:
  spellmask [aspell flags...] (--mode NAME | -D | -e | -H | -t | -n | -M)
  spellmask filter --mode NAME [--lang L] [--ignore RE]...
  spellmask mask [--lang L] [--out DIR] [--jobs N] [--progress|--no-progress] FILE...
  spellmask langs
`

func main() {
	log.SetFlags(0)
	log.SetPrefix("spellmask: ")
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	a := &app{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		getenv: os.Getenv,
		runner: execx.DefaultRunner(),
		now:    time.Now,
		isTTY:  stdinIsTerminal,
		logger: log.Default(),
	}
	code := a.run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok || f == nil {
		return false
	}
	return term.IsTerminal(int(f.Fd()))
}

type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	getenv func(string) string
	runner execx.Runner
	now    func() time.Time
	isTTY  func(io.Reader) bool
	logger *log.Logger
}

func (a *app) run(ctx context.Context, args []string) int {
	if len(args) > 0 {
		switch args[0] {
		case "filter":
			return a.filterCmd(args[1:])
		case "mask":
			return a.maskCmd(ctx, args[1:])
		case "langs":
			return a.langsCmd(args[1:])
		case "help", "-h", "--help":
			fmt.Fprint(a.stdout, usage)
			return 0
		}
	}
	return a.wrapCmd(ctx, args)
}

// env is what every subcommand needs: the decoded configuration, the
// extractor registry and the debug trace.
type env struct {
	cfg      config.Config
	registry *extract.Registry
	trace    *debuglog.Tracer
}

func (e *env) Close() error { return e.trace.Close() }

// load reads the configuration. In lenient mode a bad configuration is
// reported and the defaults are used instead; a file whose only fault is a
// type mismatch keeps everything but the mismatching keys.
func (a *app) load(lenient bool) (*env, error) {
	cfg, where, err := a.loadConfig()
	switch {
	case err == nil:
	case !lenient:
		return nil, err
	case errors.Is(err, config.ErrTypeMismatch) && cfg.Raw != nil:
		a.logger.Printf("warning: %v; keeping defaults for those keys", err)
	default:
		a.logger.Printf("warning: %v; using defaults", err)
		where = ""
		cfg, err = config.Decode(config.Defaults())
		if err != nil {
			return nil, err
		}
	}
	trace, err := debuglog.Open(cfg.Debug.File, a.now())
	if err != nil {
		a.logger.Printf("warning: debug trace: %v", err)
		trace = nil
	}
	if where != "" {
		trace.Printf("config: %s", where)
	}
	registry := extract.Default(trace.ScanError)
	if err := extract.LoadScripts(registry, cfg.ScriptDir, trace.ScanError); err != nil {
		a.logger.Printf("warning: %v", err)
		trace.Printf("script extractors: %v", err)
	}
	return &env{cfg: cfg, registry: registry, trace: trace}, nil
}

func (a *app) loadConfig() (config.Config, string, error) {
	overrides, err := config.FromEnv(a.getenv)
	if err != nil {
		return config.Config{}, "", err
	}
	explicit := ""
	if overrides.ConfigPath != nil {
		explicit = *overrides.ConfigPath
	}
	path, where, err := config.Find(explicit, a.getenv("XDG_CONFIG_HOME"), a.getenv("HOME"))
	if err != nil {
		return config.Config{}, "", fmt.Errorf("config: %w", err)
	}
	cfg, err := config.Build(path, overrides)
	if path != "" {
		where = where + " " + path
	}
	return cfg, where, err
}

func (a *app) hintIfTerminal() {
	if a.isTTY != nil && a.isTTY(a.stdin) {
		fmt.Fprintln(a.stderr, "spellmask: reading from stdin, end with Ctrl-D")
	}
}

// wrapCmd stands in for aspell: it filters stdin and runs aspell on the
// result, exiting with aspell's status.
func (a *app) wrapCmd(ctx context.Context, args []string) int {
	inv, err := aspell.ResolveMode(args)
	if err != nil {
		a.logger.Print(err)
		return 2
	}
	if inv.Mode == "" {
		a.logger.Printf("%v (--mode NAME or -D -e -H -t -n -M)", aspell.ErrNoMode)
		fmt.Fprint(a.stderr, usage)
		return 2
	}
	e, err := a.load(true)
	if err != nil {
		a.logger.Print(err)
		return 2
	}
	defer e.Close()

	a.hintIfTerminal()
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		a.logger.Printf("read stdin: %v", err)
		return 1
	}
	planner := aspell.Planner{Config: e.cfg, Registry: e.registry, Trace: e.trace}
	plan := planner.Plan(inv, string(data))
	err = aspell.Run(ctx, a.runner, e.cfg.Aspell, plan, a.stdout, a.stderr)
	if err == nil {
		return 0
	}
	if code, ok := execx.ExitCode(err); ok {
		return code
	}
	a.logger.Print(err)
	if errors.Is(err, context.Canceled) {
		return 130
	}
	if execx.IsNotFound(err) {
		return 127
	}
	return 1
}

type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}
