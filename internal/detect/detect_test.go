package detect

import "testing"

func TestNormalizeLangNameAliases(t *testing.T) {
	cases := map[string]string{
		"JS":      "javascript",
		" Ts ":    "typescript",
		"c++":     "cpp",
		"py":      "python",
		"bash":    "shell",
		"golang":  "go",
		"Python":  "python",
		"tex":     "latex",
		"unknown": "unknown",
	}
	for input, want := range cases {
		if got := NormalizeLangName(input); got != want {
			t.Fatalf("NormalizeLangName(%q)=%q want %q", input, got, want)
		}
	}
}

func TestLangByPath(t *testing.T) {
	cases := []struct {
		path string
		want string
	}{
		{"main.go", "go"},
		{"src/App.TSX", "typescriptreact"},
		{"Makefile", "make"},
		{"docs/README.md", "markdown"},
		{"templates/page.html.j2", "jinja"},
		{"notes.bak", ""},
		{"noext", ""},
	}
	for _, tc := range cases {
		t.Run(tc.path, func(t *testing.T) {
			if got := Lang(tc.path, nil); got != tc.want {
				t.Fatalf("Lang(%q)=%q want %q", tc.path, got, tc.want)
			}
		})
	}
}

func TestLangByShebang(t *testing.T) {
	cases := map[string]string{
		"#!/usr/bin/env python3\nprint(1)\n": "python",
		"#!/bin/sh\n":                        "shell",
		"#!/usr/bin/env -S node --harmony\n": "javascript",
		"#!/usr/local/bin/ruby2.7":           "ruby",
		"#!\n":                               "",
		"print(1)\n":                         "",
	}
	for data, want := range cases {
		if got := Lang("script", []byte(data)); got != want {
			t.Fatalf("Lang(script, %q)=%q want %q", data, got, want)
		}
	}
}

func TestLangMatlabHeuristic(t *testing.T) {
	data := []byte("% comment\nfunction y = square(x)\ny = x.^2;\nend\n")
	if got := Lang("foo.m", data); got != "matlab" {
		t.Fatalf("expected matlab-like .m files to be matlab, got %q", got)
	}
}

func TestLangObjectiveCPreferred(t *testing.T) {
	data := []byte("#import <Foundation/Foundation.h>\n@interface Foo : NSObject\n@end\n")
	if got := Lang("bar.m", data); got != "objective-c" {
		t.Fatalf("expected objective-c heuristics to remain, got %q", got)
	}
}
