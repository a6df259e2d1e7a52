package strings

import (
	"testing"

	"chromalyzer/internal/platform/testkit"
)

func TestMustPrefix(t *testing.T) {
	for in, want := range map[string]string{
		"/analyses":  "/analyses",
		"analyses/":  "/analyses",
		" /meta// ":  "/meta",
		"/api/v1/x/": "/api/v1/x",
	} {
		if got := MustPrefix(in); got != want {
			t.Errorf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	testkit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestMustString(t *testing.T) {
	if MustString("analysis", "module name") != "analysis" {
		t.Fatal("value changed")
	}
	testkit.MustPanic(t, func() { MustString(" \t", "module name") })
}
