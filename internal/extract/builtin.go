package extract

import (
	"github.com/phyten/spellmask/internal/lex"
	"github.com/phyten/spellmask/internal/lex/pylex"
	"github.com/phyten/spellmask/internal/lex/style"
)

var (
	pyLanguages   = []string{"python", "starlark", "cython"}
	jsLanguages   = []string{"javascript", "typescript", "javascriptreact", "typescriptreact", "json5"}
	htmlLanguages = []string{"html", "xml", "xhtml", "svg", "vue", "svelte", "aspnet"}
)

// Default returns a registry with every extractor shipped in the binary.
// onError may be nil.
func Default(onError ErrorFunc) *Registry {
	r := NewRegistry()
	for _, lang := range style.Languages() {
		st, _ := style.ForLanguage(lang)
		r.Register(lang, FromAdapter(lex.Adapter{New: st.Scanner(), OnError: onError.bind(lang)}))
	}
	// The Python family gets the full tokenizer: prefixes, continuations and
	// brackets.
	for _, lang := range pyLanguages {
		r.Register(lang, FromAdapter(lex.Adapter{New: pylex.New, OnError: onError.bind(lang)}))
	}
	r.Register("go", Go(onError.bind("go")))
	r.Register("css", CSS(onError.bind("css")))
	for _, lang := range jsLanguages {
		r.Register(lang, JS(onError.bind(lang)))
	}
	for _, lang := range htmlLanguages {
		r.Register(lang, HTML(onError.bind(lang)))
	}
	r.Register("markdown", Markdown())
	return r
}
