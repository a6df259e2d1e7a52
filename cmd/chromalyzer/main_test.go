package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"chromalyzer/internal/platform/testkit"
)

const scenarioCSV = "time,intensity\n0,1\n1,1\n2,2\n3,9\n4,2\n5,1\n6,1\n7,9\n8,9\n9,1\n"

var scenarioFlags = []string{"-store", "none", "-height", "90", "-prominence", "50", "-min-distance", "2"}

func writeFiles(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func TestRun_DirectoryTopPeaks(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"b.csv":     scenarioCSV,
		"a.csv":     scenarioCSV,
		"notes.txt": "ignored",
	})
	var out bytes.Buffer
	args := append(append([]string{}, scenarioFlags...), "-top", "1", "-workers", "2", dir)
	if err := run(context.Background(), args, &out); err != nil {
		t.Fatalf("run: %v\n%s", err, out.String())
	}
	got := out.String()
	if strings.Count(got, "Top 1 peaks:\n1. RT: 3.0s | Height: 9.0 | Area: 11.0") != 2 {
		t.Fatalf("unexpected output:\n%s", got)
	}
	if strings.Index(got, "a.csv ==") > strings.Index(got, "b.csv ==") {
		t.Fatalf("files out of order:\n%s", got)
	}
	if strings.Contains(got, "notes.txt") {
		t.Fatalf("unsupported file analyzed:\n%s", got)
	}
}

func TestRun_PersistsAndReportsFailures(t *testing.T) {
	dir := writeFiles(t, map[string]string{
		"good.csv": scenarioCSV,
		"bad.csv":  "time,intensity\n0,x\n",
	})
	records := t.TempDir()
	var out bytes.Buffer
	args := []string{"-store", "file", "-json-dir", records, "-persist",
		"-height", "90", "-prominence", "50", "-min-distance", "2",
		filepath.Join(dir, "good.csv"), filepath.Join(dir, "bad.csv")}
	err := run(context.Background(), args, &out)
	if err == nil || !strings.Contains(err.Error(), "1 of 2 files failed") {
		t.Fatalf("err = %v", err)
	}
	testkit.MustContain(t, out.String(), "Chromatogram Summary: good.csv")
	testkit.MustContain(t, out.String(), "saved: good.json")
	testkit.MustContain(t, out.String(), "error:")
	if _, err := os.Stat(filepath.Join(records, "good.json")); err != nil {
		t.Fatalf("record missing: %v", err)
	}
}

func TestRun_Rejects(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-store", "none"}, &out); err == nil {
		t.Fatal("no inputs should fail")
	}
	dir := writeFiles(t, map[string]string{"a.csv": scenarioCSV})
	if err := run(context.Background(), []string{"-store", "none", "-min-distance", "0", dir}, &out); err == nil {
		t.Fatal("invalid detector settings should fail")
	}
	empty := t.TempDir()
	if err := run(context.Background(), []string{"-store", "none", empty}, &out); err == nil {
		t.Fatal("directory without traces should fail")
	}
}

func TestRun_Version(t *testing.T) {
	var out bytes.Buffer
	if err := run(context.Background(), []string{"-version"}, &out); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(out.String(), "chromalyzer dev (commit ") {
		t.Fatalf("version line = %q", out.String())
	}
}
