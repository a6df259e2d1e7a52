package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type profile struct {
	MinDistance *int     `yaml:"min_distance"`
	RelHeight   *float64 `yaml:"rel_height"`
}

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "profile.yaml")
	if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	var p profile
	if err := LoadYAML(writeFile(t, "min_distance: 3\nrel_height: 0.25\n"), &p); err != nil {
		t.Fatalf("LoadYAML: %v", err)
	}
	if p.MinDistance == nil || *p.MinDistance != 3 || p.RelHeight == nil || *p.RelHeight != 0.25 {
		t.Fatalf("decoded %+v", p)
	}
}

func TestLoadYAML_Errors(t *testing.T) {
	var p profile
	err := LoadYAML(writeFile(t, "min_distnce: 3\n"), &p)
	if err == nil || !strings.Contains(err.Error(), "decode") {
		t.Fatalf("unknown key should fail, got %v", err)
	}
	if err := LoadYAML(filepath.Join(t.TempDir(), "nope.yaml"), &p); err == nil {
		t.Fatalf("missing file should fail")
	}
	if err := LoadYAML(writeFile(t, ""), &p); err != nil {
		t.Fatalf("empty file should decode to zero value: %v", err)
	}
}

func TestMayYAML(t *testing.T) {
	c := New().Prefix("PK_")
	var p profile
	if ok, err := c.MayYAML("PROFILE", &p); ok || err != nil {
		t.Fatalf("unset key: ok=%v err=%v", ok, err)
	}
	t.Setenv("PK_PROFILE", writeFile(t, "min_distance: 7\n"))
	ok, err := c.MayYAML("PROFILE", &p)
	if !ok || err != nil || *p.MinDistance != 7 {
		t.Fatalf("ok=%v err=%v p=%+v", ok, err, p)
	}
}
