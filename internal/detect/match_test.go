package detect

import (
	"slices"
	"testing"
)

func TestContainsToken(t *testing.T) {
	cases := []struct {
		content     string
		needle      string
		checkBefore bool
		want        bool
	}{
		{"package:http/http.dart", "package:http", false, true},
		{"package:http_client/x.dart", "package:http", false, false},
		{"package:http_client package:http;", "package:http", false, true},
		{"final widget = 1;", "widget", true, true},
		{"final myWidget = 1;", "Widget", true, false},
		{"widgets", "widget", true, false},
		{"widget", "widget", true, true},
		{"$widget", "widget", true, false},
		{"anything", "", true, true},
	}
	for _, tc := range cases {
		if got := containsToken([]byte(tc.content), []byte(tc.needle), tc.checkBefore); got != tc.want {
			t.Fatalf("containsToken(%q, %q, %v) = %v, want %v", tc.content, tc.needle, tc.checkBefore, got, tc.want)
		}
	}
}

func TestDirectiveURIs(t *testing.T) {
	content := []byte("library demo;\n" +
		"import 'package:flutter/material.dart';\n" +
		"import \"src/a.dart\" as a;\n" +
		"  export 'src/b.dart' show B;\n" +
		"part 'demo.g.dart';\n" +
		"part of \"../lib.dart\";\n" +
		"// import 'commented.dart';\n" +
		"final s = \"import 'inline.dart'\";\n")

	want := []string{"package:flutter/material.dart", "src/a.dart", "src/b.dart", "demo.g.dart", "../lib.dart"}
	if got := directiveURIs(content); !slices.Equal(got, want) {
		t.Fatalf("unexpected uris: %v", got)
	}
}

func TestResolveDirective(t *testing.T) {
	cases := []struct {
		uri, from, self string
		want            string
		kind            resolution
	}{
		{"b.dart", "lib/a.dart", "demo", "lib/b.dart", resolvedPath},
		{"../util/x.dart", "lib/src/a.dart", "demo", "lib/util/x.dart", resolvedPath},
		{"package:demo/src/x.dart", "test/a_test.dart", "demo", "lib/src/x.dart", resolvedPath},
		{"package:other/x.dart", "lib/a.dart", "demo", "", unresolved},
		{"package:other/src/x.dart", "lib/a.dart", "", "x.dart", resolvedSegment},
		{"package:demo", "lib/a.dart", "demo", "", unresolved},
		{"dart:async", "lib/a.dart", "demo", "", unresolved},
		{"/abs/x.dart", "lib/a.dart", "demo", "", unresolved},
	}
	for _, tc := range cases {
		got, kind := resolveDirective(tc.uri, tc.from, tc.self)
		if got != tc.want || kind != tc.kind {
			t.Fatalf("resolveDirective(%q, %q, %q) = %q/%d, want %q/%d", tc.uri, tc.from, tc.self, got, kind, tc.want, tc.kind)
		}
	}
}
