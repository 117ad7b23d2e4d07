// Package aspell wraps the aspell command with comment-only filtering.
//
// A filter name taken from aspell's own mode flags selects, through the
// configuration maps, either one of aspell's built-in modes or a registered
// extractor. Extractor output is handed to aspell in mode "none".
package aspell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/phyten/spellmask/internal/config"
	"github.com/phyten/spellmask/internal/debuglog"
	"github.com/phyten/spellmask/internal/execx"
	"github.com/phyten/spellmask/internal/extract"
	"github.com/phyten/spellmask/internal/mask"
)

const (
	ModeNone = "none"
	ModeAll  = "all"
	anyArgs  = "any"
)

var (
	ErrNoMode    = errors.New("a filter mode is required")
	ErrArgsCycle = errors.New("aspellArgs basedOn cycle")
)

// shortModes are aspell's single-letter mode flags, in precedence order.
var shortModes = []struct {
	flag string
	mode string
}{
	{"-D", "debctrl"},
	{"-e", "email"},
	{"-H", "html"},
	{"-t", "tex"},
	{"-n", "nroff"},
	{"-M", "markdown"},
}

// Invocation is a parsed command line.
type Invocation struct {
	// Mode is the requested filter name, empty when none was given.
	Mode string
	// Passthrough holds every other argument, in order.
	Passthrough []string
}

// ResolveMode extracts the filter name from aspell style arguments.
// --mode wins over the short flags, which rank -D -e -H -t -n -M.
func ResolveMode(args []string) (Invocation, error) {
	var inv Invocation
	var long string
	short := map[string]bool{}
	for i := 0; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "--":
			inv.Passthrough = append(inv.Passthrough, args[i:]...)
			i = len(args)
		case arg == "--mode":
			if i+1 >= len(args) {
				return inv, fmt.Errorf("--mode: missing value")
			}
			i++
			if long == "" {
				long = args[i]
			}
		case strings.HasPrefix(arg, "--mode="):
			if long == "" {
				long = strings.TrimPrefix(arg, "--mode=")
			}
		case isShortMode(arg):
			short[arg] = true
		default:
			inv.Passthrough = append(inv.Passthrough, arg)
		}
	}
	inv.Mode = long
	if inv.Mode == "" {
		for _, m := range shortModes {
			if short[m.flag] {
				inv.Mode = m.mode
				break
			}
		}
	}
	return inv, nil
}

func isShortMode(arg string) bool {
	for _, m := range shortModes {
		if arg == m.flag {
			return true
		}
	}
	return false
}

// MergeArgs collects the extra aspell arguments for filter. An unknown filter
// gets the "any" arguments; a known one gets those of its basedOn chain, or
// of "any" when it has none, followed by its own.
func MergeArgs(args map[string]config.ArgsConfig, filter string) ([]string, error) {
	return mergeArgs(args, filter, map[string]bool{})
}

func mergeArgs(args map[string]config.ArgsConfig, filter string, visiting map[string]bool) ([]string, error) {
	entry, ok := args[filter]
	if !ok {
		return append([]string(nil), args[anyArgs].Args...), nil
	}
	if visiting[filter] {
		return nil, fmt.Errorf("%w at %q", ErrArgsCycle, filter)
	}
	visiting[filter] = true
	var out []string
	switch {
	case entry.BasedOn != "":
		base, err := mergeArgs(args, entry.BasedOn, visiting)
		if err != nil {
			return nil, err
		}
		out = append(out, base...)
	case filter != anyArgs:
		out = append(out, args[anyArgs].Args...)
	}
	return append(out, entry.Args...), nil
}

// Plan is a decided aspell run.
type Plan struct {
	Filter string
	Mapped string
	Module string
	Mode   string
	// Filtered is set when an extractor produced Input.
	Filtered bool
	Input    string
	Args     []string
	// Err is the planning failure that forced the fallback, if any.
	Err error
}

// Planner turns an invocation and its input into a Plan.
type Planner struct {
	Config   config.Config
	Registry *extract.Registry
	Trace    *debuglog.Tracer
}

// Plan never fails: any error falls back to the unfiltered input checked in
// mode none, with the error kept in Plan.Err.
func (p Planner) Plan(inv Invocation, input string) Plan {
	plan, err := p.plan(inv, input)
	if err != nil {
		p.Trace.Printf("could not filter: %v", err)
		plan.Err = err
		plan.Mode = ModeNone
		plan.Filtered = false
		plan.Input = input
		plan.Args = append(append([]string(nil), inv.Passthrough...), "--mode", ModeNone)
	}
	p.Trace.Block("filtered input", plan.Input)
	for _, arg := range plan.Args {
		p.Trace.Printf("arg: [%s]", arg)
	}
	return plan
}

func (p Planner) plan(inv Invocation, input string) (Plan, error) {
	plan := Plan{Filter: inv.Mode}
	if inv.Mode == "" {
		return plan, ErrNoMode
	}
	p.Trace.Printf("filterName: [%s]", inv.Mode)
	extra, err := MergeArgs(p.Config.AspellArgs, inv.Mode)
	if err != nil {
		return plan, err
	}

	name, module := p.Resolve(inv.Mode)
	plan.Mapped = name
	plan.Module = module
	p.Trace.Printf("mapped filterName: [%s]", name)
	p.Trace.Printf("filterModule: [%s]", module)
	p.Trace.Preview("input", input)

	switch {
	case p.Config.UseAspellFilter[name] && name == ModeAll:
		p.Trace.Printf("using aspell with all content filtered out")
		plan.Mode = name
		plan.Input = ""
	case p.Config.UseAspellFilter[name]:
		p.Trace.Printf("using aspell filter")
		plan.Mode = name
		plan.Input = input
	default:
		plan.Mode = ModeNone
		plan.Input, plan.Filtered, err = p.filter(name, module, input)
		if err != nil {
			return plan, err
		}
	}
	plan.Args = append(append([]string(nil), inv.Passthrough...), "--mode", plan.Mode)
	plan.Args = append(plan.Args, extra...)
	return plan, nil
}

// Resolve applies mapFilter and then mapFilterModule to a filter name.
func (p Planner) Resolve(filter string) (name, module string) {
	name = filter
	if mapped, ok := p.Config.MapFilter[name]; ok {
		name = mapped
	}
	module = name
	if m, ok := p.Config.MapFilterModule[name]; ok {
		module = m
	}
	return name, module
}

func (p Planner) filter(name, module, input string) (string, bool, error) {
	if p.Registry == nil {
		return input, false, nil
	}
	fc, err := p.Config.FilterSettings(module, name)
	if err != nil {
		return "", false, err
	}
	lang := module
	if fc.Language != "" {
		lang = fc.Language
	}
	e, ok := p.Registry.Lookup(lang)
	if !ok {
		p.Trace.Printf("no filter found for [%s]", lang)
		return input, false, nil
	}
	p.Trace.Dump("filterConfig", fc)
	p.Trace.Printf("running filter [%s]", lang)
	out, err := mask.Filter(input, e, mask.Options{Ignores: fc.Ignores, OnIgnore: p.Trace.Ignore})
	if err != nil {
		return "", false, err
	}
	return out, true, nil
}

// Run executes aspell for plan, feeding plan.Input on stdin.
func Run(ctx context.Context, runner execx.Runner, binary string, plan Plan, stdout, stderr io.Writer) error {
	err := runner.Run(ctx, execx.Command{
		Name:   binary,
		Args:   plan.Args,
		Stdin:  strings.NewReader(plan.Input),
		Stdout: stdout,
		Stderr: stderr,
	})
	if err != nil && execx.IsNotFound(err) {
		return fmt.Errorf("run %s: %w", binary, err)
	}
	return err
}
