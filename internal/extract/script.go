package extract

import (
	"errors"
	"fmt"
	"iter"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dop251/goja"

	"github.com/phyten/spellmask/internal/model"
)

// ScriptFunc is the global a script extractor must define. It receives the
// text and returns an array of {textStart, textEnd, codeStart, codeEnd,
// multiline} objects with offsets in UTF-16 code units.
const ScriptFunc = "extractComments"

// Script is an extractor implemented in JavaScript.
type Script struct {
	name    string
	onError func(error)

	mu sync.Mutex
	vm *goja.Runtime
	fn goja.Callable
}

// LoadScript evaluates src and binds its extractComments function.
func LoadScript(name, src string, onError func(error)) (*Script, error) {
	vm := goja.New()
	if _, err := vm.RunScript(name, src); err != nil {
		return nil, fmt.Errorf("load %s: %w", name, err)
	}
	fn, ok := goja.AssertFunction(vm.Get(ScriptFunc))
	if !ok {
		return nil, fmt.Errorf("load %s: %s is not a function", name, ScriptFunc)
	}
	return &Script{name: name, onError: onError, vm: vm, fn: fn}, nil
}

// LoadScripts registers every <lang>.js file in dir. A missing dir is not an
// error.
func LoadScripts(r *Registry, dir string, onError ErrorFunc) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read script dir: %w", err)
	}
	var errs []error
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".js" {
			continue
		}
		path := filepath.Join(dir, e.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		lang := strings.TrimSuffix(e.Name(), ".js")
		s, err := LoadScript(path, string(data), onError.bind(lang))
		if err != nil {
			errs = append(errs, err)
			continue
		}
		r.Register(lang, s)
	}
	return errors.Join(errs...)
}

func (s *Script) ExtractComments(text string) iter.Seq[model.Comment] {
	return func(yield func(model.Comment) bool) {
		comments, err := s.run(text)
		if err != nil && s.onError != nil {
			s.onError(err)
		}
		for _, c := range comments {
			if !yield(c) {
				return
			}
		}
	}
}

// run calls into the runtime; goja runtimes are not safe for concurrent use.
func (s *Script) run(text string) ([]model.Comment, error) {
	s.mu.Lock()
	res, err := s.fn(goja.Undefined(), s.vm.ToValue(text))
	var exported any
	if err == nil {
		exported = res.Export()
	}
	s.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.name, err)
	}
	items, ok := exported.([]any)
	if !ok {
		if exported == nil {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %s returned %T, want array", s.name, ScriptFunc, exported)
	}
	units := newUTF16Offsets(text)
	var (
		out  []model.Comment
		errs []error
	)
	for i, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			errs = append(errs, fmt.Errorf("%s: item %d is %T", s.name, i, item))
			continue
		}
		c := model.Comment{
			Source:    text,
			Text:      model.Span{Start: units.at(obj["textStart"]), End: units.at(obj["textEnd"])},
			Code:      model.Span{Start: units.at(obj["codeStart"]), End: units.at(obj["codeEnd"])},
			Multiline: obj["multiline"] == true,
		}
		if err := c.Valid(); err != nil {
			errs = append(errs, fmt.Errorf("%s: item %d: %w", s.name, i, err))
			continue
		}
		out = append(out, c)
	}
	return out, errors.Join(errs...)
}

// utf16Offsets maps UTF-16 code unit indexes to byte offsets.
type utf16Offsets []int

func newUTF16Offsets(text string) utf16Offsets {
	table := make([]int, 0, len(text)+1)
	for i, r := range text {
		table = append(table, i)
		if r >= 0x10000 {
			table = append(table, i)
		}
	}
	return append(table, len(text))
}

func (u utf16Offsets) at(v any) int {
	var n int
	switch v := v.(type) {
	case int64:
		n = int(v)
	case float64:
		n = int(v)
	case int:
		n = v
	default:
		return -1
	}
	if n < 0 {
		return -1
	}
	if n >= len(u) {
		return u[len(u)-1] + n - (len(u) - 1)
	}
	return u[n]
}
