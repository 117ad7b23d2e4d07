// Package extract maps language names to comment extractors.
package extract

import (
	"iter"
	"sync"

	"bitbucket.org/creachadair/stringset"

	"github.com/phyten/spellmask/internal/detect"
	"github.com/phyten/spellmask/internal/lex"
	"github.com/phyten/spellmask/internal/model"
)

// Extractor produces the comments of a text in source order.
type Extractor interface {
	ExtractComments(text string) iter.Seq[model.Comment]
}

// Func adapts a plain function to Extractor.
type Func func(text string) iter.Seq[model.Comment]

func (f Func) ExtractComments(text string) iter.Seq[model.Comment] { return f(text) }

// ErrorFunc observes errors an extractor recovered from.
type ErrorFunc func(lang string, err error)

func (f ErrorFunc) bind(lang string) func(error) {
	if f == nil {
		return nil
	}
	return func(err error) { f(lang, err) }
}

// FromAdapter wraps a tolerant lexer adapter.
func FromAdapter(a lex.Adapter) Extractor { return Func(a.Comments) }

// Registry holds one extractor per normalized language name.
type Registry struct {
	mu sync.RWMutex
	m  map[string]Extractor
}

func NewRegistry() *Registry {
	return &Registry{m: make(map[string]Extractor)}
}

// Register binds e to lang, replacing any earlier binding.
func (r *Registry) Register(lang string, e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.m[detect.NormalizeLangName(lang)] = e
}

// Lookup resolves lang through the alias table before searching.
func (r *Registry) Lookup(lang string) (Extractor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.m[detect.NormalizeLangName(lang)]
	return e, ok
}

// Languages returns the registered names, sorted.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	set := stringset.New()
	for lang := range r.m {
		set.Add(lang)
	}
	return set.Elements()
}
