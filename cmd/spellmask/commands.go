package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/phyten/spellmask/internal/aspell"
	"github.com/phyten/spellmask/internal/detect"
	"github.com/phyten/spellmask/internal/extract"
	"github.com/phyten/spellmask/internal/mask"
	"github.com/phyten/spellmask/internal/util"
)

func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// filterCmd writes masked stdin to stdout without running aspell.
func (a *app) filterCmd(args []string) int {
	fs := a.newFlagSet("filter")
	var (
		mode    = fs.String("mode", "", "filter name, resolved through mapFilter and mapFilterModule")
		lang    = fs.String("lang", "", "extractor language (overrides the filter's)")
		ignores stringList
	)
	fs.Var(&ignores, "ignore", "regexp blanked inside comments (repeatable)")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *mode == "" && *lang == "" {
		a.logger.Print("filter: --mode or --lang is required")
		return 2
	}
	extra, err := mask.CompileIgnores(ignores)
	if err != nil {
		a.logger.Printf("filter: %v", err)
		return 2
	}
	e, err := a.load(false)
	if err != nil {
		a.logger.Print(err)
		return 2
	}
	defer e.Close()

	planner := aspell.Planner{Config: e.cfg, Registry: e.registry, Trace: e.trace}
	name, module := *lang, *lang
	if *mode != "" {
		name, module = planner.Resolve(*mode)
	}
	fc, err := e.cfg.FilterSettings(module, name)
	if err != nil {
		a.logger.Printf("filter: %v", err)
		return 2
	}
	target := module
	if fc.Language != "" {
		target = fc.Language
	}
	if *lang != "" {
		target = *lang
	}
	ex, ok := e.registry.Lookup(target)
	if !ok {
		a.logger.Printf("filter: no extractor for %q", target)
		return 2
	}

	a.hintIfTerminal()
	data, err := io.ReadAll(a.stdin)
	if err != nil {
		a.logger.Printf("read stdin: %v", err)
		return 1
	}
	opts := mask.Options{Ignores: slices.Concat(fc.Ignores, extra), OnIgnore: e.trace.Ignore}
	out, ferr := mask.Filter(string(data), ex, opts)
	if _, err := io.WriteString(a.stdout, out); err != nil {
		a.logger.Print(err)
		return 1
	}
	if ferr != nil {
		a.logger.Printf("filter %s: %v; input passed through unchanged", target, ferr)
		return 1
	}
	return 0
}

// maskCmd masks files. A single file goes to stdout; several need --out.
func (a *app) maskCmd(ctx context.Context, args []string) int {
	fs := a.newFlagSet("mask")
	var (
		lang = fs.String("lang", "", "extractor language (default: detected per file)")
		out  = fs.String("out", "", "directory for masked copies")
		jobs = fs.Int("jobs", 0, "max parallel workers (default: config jobs)")

		forceProg  = fs.Bool("progress", false, "force progress even when stderr is not a terminal")
		noProgress = fs.Bool("no-progress", false, "disable progress/ETA")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	files := fs.Args()
	switch {
	case len(files) == 0:
		a.logger.Print("mask: no input files")
		return 2
	case len(files) > 1 && *out == "":
		a.logger.Print("mask: --out is required with several files")
		return 2
	}
	e, err := a.load(false)
	if err != nil {
		a.logger.Print(err)
		return 2
	}
	defer e.Close()

	limit := *jobs
	if limit <= 0 {
		limit = e.cfg.Jobs
	}
	job := maskJob{lang: *lang, env: e}

	if *out == "" {
		masked, err := job.maskFile(files[0])
		if err != nil {
			a.logger.Print(err)
			return 1
		}
		if _, err := io.WriteString(a.stdout, masked); err != nil {
			a.logger.Print(err)
			return 1
		}
		return 0
	}

	prog := util.NewProgress(a.stderr, "mask", len(files), util.ShouldShowProgress(*forceProg, *noProgress, a.stderr))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for _, path := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			defer prog.Step()
			return job.writeMasked(path, *out)
		})
	}
	err = g.Wait()
	prog.Done()
	if err != nil {
		a.logger.Print(err)
		return 1
	}
	return 0
}

type maskJob struct {
	lang string
	env  *env
}

func (j maskJob) maskFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	lang := j.lang
	if lang == "" {
		lang = detect.Lang(path, data)
	}
	if lang == "" {
		return "", fmt.Errorf("%s: cannot detect language, use --lang", path)
	}
	ex, ok := j.env.registry.Lookup(lang)
	if !ok {
		return "", fmt.Errorf("%s: no extractor for %q", path, lang)
	}
	fc, err := j.env.cfg.FilterSettings(lang)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	text := string(data)
	masked, err := mask.Mask(text, ex.ExtractComments(text), fc.Ignores)
	if err != nil {
		return "", fmt.Errorf("%s: %w", path, err)
	}
	j.env.trace.Printf("masked %s as %s", path, lang)
	return masked, nil
}

func (j maskJob) writeMasked(path, outDir string) error {
	rel, err := outputPath(path)
	if err != nil {
		return err
	}
	masked, err := j.maskFile(path)
	if err != nil {
		return err
	}
	dst := filepath.Join(outDir, rel)
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	return os.WriteFile(dst, []byte(masked), 0o644)
}

var errOutsideOut = errors.New("path would escape the output directory")

// outputPath maps an input path to its place under the output directory.
// Absolute paths keep their full tree.
func outputPath(path string) (string, error) {
	rel := filepath.Clean(path)
	if filepath.IsAbs(rel) {
		rel = strings.TrimPrefix(rel, filepath.VolumeName(rel))
		rel = strings.TrimLeft(rel, string(filepath.Separator))
	}
	if !filepath.IsLocal(rel) {
		return "", fmt.Errorf("%s: %w", path, errOutsideOut)
	}
	return rel, nil
}

func (a *app) langsCmd(args []string) int {
	fs := a.newFlagSet("langs")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	e, err := a.load(false)
	if err != nil {
		a.logger.Print(err)
		return 2
	}
	defer e.Close()
	printLangs(a.stdout, e.registry)
	return 0
}

func printLangs(w io.Writer, r *extract.Registry) {
	for _, lang := range r.Languages() {
		fmt.Fprintln(w, lang)
	}
}
