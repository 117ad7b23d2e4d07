// Package detect guesses the language of a file from its name and first
// line, and canonicalizes user supplied language names.
package detect

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Lang returns the normalized language of the file at path, or "" when
// neither the name nor a shebang line identify it. data may be nil.
func Lang(path string, data []byte) string {
	if name := byPath(path); name != "" {
		if name == "objective-c" && strings.EqualFold(filepath.Ext(path), ".m") && looksLikeMatlab(data) {
			return "matlab"
		}
		return name
	}
	return byShebang(data)
}

func byPath(p string) string {
	base := strings.ToLower(filepath.Base(p))
	if lang, ok := basenameLanguages[base]; ok {
		return lang
	}
	ext := filepath.Ext(base)
	if ext == "" {
		return ""
	}
	if lang, ok := extensionLanguages[ext]; ok {
		return lang
	}
	// Template suffixes such as foo.html.j2 fall back to the inner extension.
	stem := strings.TrimSuffix(base, ext)
	if lang, ok := extensionLanguages[filepath.Ext(stem)]; ok {
		return lang
	}
	return ""
}

func byShebang(data []byte) string {
	if !bytes.HasPrefix(data, []byte("#!")) {
		return ""
	}
	line := data
	if end := bytes.IndexByte(data, '\n'); end >= 0 {
		line = data[:end]
	}
	fields := strings.Fields(strings.ToLower(string(line[2:])))
	if len(fields) == 0 {
		return ""
	}
	interp := filepath.Base(fields[0])
	if interp == "env" {
		interp = ""
		for _, f := range fields[1:] {
			if !strings.HasPrefix(f, "-") {
				interp = f
				break
			}
		}
	}
	interp = strings.TrimRight(interp, "0123456789.")
	return shebangLanguages[interp]
}

// NormalizeLangName lowercases name and resolves common aliases and file
// extensions to a canonical language name.
func NormalizeLangName(name string) string {
	n := strings.ToLower(strings.TrimSpace(name))
	if canon, ok := langAliases[n]; ok {
		return canon
	}
	if canon, ok := extensionLanguages["."+n]; ok {
		return canon
	}
	return n
}

var basenameLanguages = map[string]string{
	"makefile":       "make",
	"gnumakefile":    "make",
	"cmakelists.txt": "cmake",
	"dockerfile":     "dockerfile",
	"containerfile":  "dockerfile",
	"gemfile":        "ruby",
	"rakefile":       "ruby",
	"vagrantfile":    "ruby",
	"jenkinsfile":    "groovy",
	"build":          "starlark",
	"workspace":      "starlark",
	".bashrc":        "shell",
	".zshrc":         "shell",
	".profile":       "shell",
	".env":           "dotenv",
}

var extensionLanguages = map[string]string{
	".c":          "c",
	".h":          "c",
	".cc":         "cpp",
	".cpp":        "cpp",
	".cxx":        "cpp",
	".hpp":        "cpp",
	".m":          "objective-c",
	".mm":         "objective-cpp",
	".go":         "go",
	".js":         "javascript",
	".mjs":        "javascript",
	".cjs":        "javascript",
	".jsx":        "javascriptreact",
	".ts":         "typescript",
	".tsx":        "typescriptreact",
	".json5":      "json5",
	".py":         "python",
	".pyi":        "python",
	".pyw":        "python",
	".pyx":        "cython",
	".rb":         "ruby",
	".erb":        "erb",
	".php":        "php",
	".cs":         "csharp",
	".fs":         "fsharp",
	".java":       "java",
	".kt":         "kotlin",
	".kts":        "kotlin",
	".scala":      "scala",
	".groovy":     "groovy",
	".gradle":     "gradle",
	".swift":      "swift",
	".rs":         "rust",
	".dart":       "dart",
	".zig":        "zig",
	".ex":         "elixir",
	".exs":        "elixir",
	".hs":         "haskell",
	".elm":        "elm",
	".ml":         "ocaml",
	".mli":        "ocaml",
	".clj":        "clojure",
	".lisp":       "common-lisp",
	".scm":        "scheme",
	".rkt":        "racket",
	".lua":        "lua",
	".jl":         "julia",
	".nim":        "nim",
	".r":          "r",
	".pl":         "perl",
	".pm":         "perl",
	".sh":         "shell",
	".bash":       "shell",
	".zsh":        "shell",
	".fish":       "fish",
	".ps1":        "powershell",
	".psm1":       "powershell",
	".bat":        "batch",
	".cmd":        "batch",
	".sql":        "sql",
	".yaml":       "yaml",
	".yml":        "yaml",
	".toml":       "toml",
	".ini":        "ini",
	".cfg":        "ini",
	".properties": "properties",
	".md":         "markdown",
	".markdown":   "markdown",
	".tex":        "latex",
	".sty":        "latex",
	".html":       "html",
	".htm":        "html",
	".xhtml":      "xhtml",
	".xml":        "xml",
	".svg":        "svg",
	".vue":        "vue",
	".svelte":     "svelte",
	".aspx":       "aspnet",
	".css":        "css",
	".scss":       "scss",
	".sass":       "sass",
	".less":       "less",
	".styl":       "stylus",
	".proto":      "proto",
	".thrift":     "thrift",
	".hcl":        "hcl",
	".tf":         "terraform",
	".bzl":        "starlark",
	".star":       "starlark",
	".mk":         "make",
	".cmake":      "cmake",
	".j2":         "jinja",
	".jinja":      "jinja",
	".twig":       "twig",
	".liquid":     "liquid",
	".hbs":        "handlebars",
	".v":          "verilog",
	".sv":         "systemverilog",
	".cls":        "apex",
}

var langAliases = map[string]string{
	"c#":      "csharp",
	"c++":     "cpp",
	"golang":  "go",
	"node":    "javascript",
	"bash":    "shell",
	"sh":      "shell",
	"zsh":     "shell",
	"tex":     "latex",
	"python3": "python",
	"py3":     "python",
	"md":      "markdown",
	"js":      "javascript",
	"ts":      "typescript",
	"yml":     "yaml",
}

var shebangLanguages = map[string]string{
	"python":  "python",
	"pypy":    "python",
	"node":    "javascript",
	"deno":    "typescript",
	"perl":    "perl",
	"ruby":    "ruby",
	"php":     "php",
	"bash":    "shell",
	"sh":      "shell",
	"dash":    "shell",
	"zsh":     "shell",
	"ksh":     "shell",
	"fish":    "fish",
	"pwsh":    "powershell",
	"lua":     "lua",
	"rscript": "r",
	"julia":   "julia",
	"elixir":  "elixir",
	"tclsh":   "shell",
}

// looksLikeMatlab separates MATLAB sources from Objective-C; both use .m.
func looksLikeMatlab(data []byte) bool {
	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}
	sawKeyword := false
	for _, line := range strings.Split(string(sample), "\n") {
		lower := strings.ToLower(strings.TrimSpace(line))
		switch {
		case lower == "" || strings.HasPrefix(lower, "%"):
			continue
		case strings.HasPrefix(lower, "@interface"), strings.HasPrefix(lower, "@implementation"), strings.HasPrefix(lower, "#import"):
			return false
		case strings.HasPrefix(lower, "function"), strings.HasPrefix(lower, "classdef"):
			return true
		case strings.HasPrefix(lower, "properties"), strings.HasPrefix(lower, "methods"):
			sawKeyword = true
		}
	}
	return sawKeyword
}
