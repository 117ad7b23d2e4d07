package style

import (
	"sort"

	"github.com/phyten/spellmask/internal/lex"
)

var (
	cBlock = Block{Start: "/*", End: "*/", Kind: lex.BlockComment}

	styleC = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{cBlock},
		StringDelims: []string{"\"", "'"},
	}
	styleHash = Style{
		LinePrefixes: []string{"#"},
		StringDelims: []string{"\"", "'"},
	}
	styleRuby = Style{
		LinePrefixes: []string{"#"},
		Blocks:       []Block{{Start: "=begin", End: "=end", Kind: lex.BlockComment, LineStartOnly: true}},
		StringDelims: []string{"\"", "'"},
	}
	stylePython = Style{
		LinePrefixes: []string{"#"},
		Blocks: []Block{
			{Start: `"""`, End: `"""`, Kind: lex.String},
			{Start: "'''", End: "'''", Kind: lex.String},
		},
		StringDelims: []string{"\"", "'"},
	}
	styleSQL = Style{
		LinePrefixes: []string{"--"},
		Blocks:       []Block{cBlock},
		StringDelims: []string{"'"},
	}
	styleIni = Style{
		LinePrefixes: []string{";", "#"},
	}
	styleHCL = Style{
		LinePrefixes: []string{"//", "#"},
		Blocks:       []Block{cBlock},
		StringDelims: []string{"\""},
	}
	styleLisp = Style{
		LinePrefixes: []string{";"},
		StringDelims: []string{"\""},
	}
	styleHaskell = Style{
		LinePrefixes: []string{"--"},
		Blocks:       []Block{{Start: "{-", End: "-}", Kind: lex.BlockComment}},
		StringDelims: []string{"\""},
	}
	styleOCaml = Style{
		Blocks:       []Block{{Start: "(*", End: "*)", Kind: lex.BlockComment}},
		StringDelims: []string{"\""},
	}
	stylePowershell = Style{
		LinePrefixes: []string{"#"},
		Blocks:       []Block{{Start: "<#", End: "#>", Kind: lex.BlockComment}},
		StringDelims: []string{"\"", "'"},
	}
	styleJinja = Style{
		Blocks: []Block{{Start: "{#", End: "#}", Kind: lex.BlockComment}},
	}
	styleHandlebars = Style{
		Blocks: []Block{
			{Start: "{{!--", End: "--}}", Kind: lex.BlockComment},
			{Start: "{{!", End: "}}", Kind: lex.BlockComment},
		},
	}
	styleBatch = Style{
		LinePrefixes: []string{"REM ", "rem ", "::"},
	}
	styleBash = Style{
		LinePrefixes: []string{"#"},
		StringDelims: []string{"\"", "'", "`"},
	}
	styleLatex = Style{
		LinePrefixes: []string{"%"},
	}
	styleMatlab = Style{
		LinePrefixes: []string{"%"},
		Blocks:       []Block{{Start: "%{", End: "%}", Kind: lex.BlockComment, LineStartOnly: true}},
		StringDelims: []string{"\""},
	}
	styleSass = Style{
		LinePrefixes: []string{"//"},
		Blocks:       []Block{cBlock},
		StringDelims: []string{"\"", "'"},
	}
	styleLua = Style{
		LinePrefixes: []string{"--"},
		Blocks:       []Block{{Start: "--[[", End: "]]", Kind: lex.BlockComment}},
		StringDelims: []string{"\"", "'"},
	}
)

var languageStyles = map[string]Style{
	"c":             styleC,
	"cpp":           styleC,
	"objective-c":   styleC,
	"objective-cpp": styleC,
	"java":          styleC,
	"csharp":        styleC,
	"scala":         styleC,
	"kotlin":        styleC,
	"swift":         styleC,
	"groovy":        styleC,
	"gradle":        styleC,
	"dart":          styleC,
	"rust":          styleC,
	"php":           styleC,
	"proto":         styleC,
	"thrift":        styleC,
	"verilog":       styleC,
	"systemverilog": styleC,
	"zig":           styleC,
	"apex":          styleC,
	"hcl":           styleHCL,
	"terraform":     styleHCL,
	"python":        stylePython,
	"starlark":      stylePython,
	"cython":        stylePython,
	"ruby":          styleRuby,
	"erb":           styleRuby,
	"perl":          styleHash,
	"shell":         styleBash,
	"fish":          styleHash,
	"powershell":    stylePowershell,
	"batch":         styleBatch,
	"yaml":          styleHash,
	"toml":          styleHash,
	"ini":           styleIni,
	"properties":    styleIni,
	"dotenv":        styleHash,
	"make":          styleHash,
	"cmake":         styleHash,
	"dockerfile":    styleHash,
	"r":             styleHash,
	"julia":         styleHash,
	"nim":           styleHash,
	"elixir":        styleHash,
	"sql":           styleSQL,
	"lua":           styleLua,
	"scss":          styleSass,
	"sass":          styleSass,
	"less":          styleSass,
	"stylus":        styleSass,
	"latex":         styleLatex,
	"matlab":        styleMatlab,
	"jinja":         styleJinja,
	"django":        styleJinja,
	"twig":          styleJinja,
	"liquid":        styleJinja,
	"handlebars":    styleHandlebars,
	"common-lisp":   styleLisp,
	"scheme":        styleLisp,
	"racket":        styleLisp,
	"clojure":       styleLisp,
	"haskell":       styleHaskell,
	"elm":           styleHaskell,
	"ocaml":         styleOCaml,
	"fsharp":        styleC,
}

// ForLanguage returns the style for a normalized language name.
func ForLanguage(lang string) (Style, bool) {
	st, ok := languageStyles[lang]
	return st, ok
}

// Languages lists every language with a style, sorted.
func Languages() []string {
	out := make([]string, 0, len(languageStyles))
	for lang := range languageStyles {
		out = append(out, lang)
	}
	sort.Strings(out)
	return out
}
