package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
)

func TestLevel(t *testing.T) {
	cases := map[string]zerolog.Level{
		"trace":    zerolog.TraceLevel,
		" INFO ":   zerolog.InfoLevel,
		"warning":  zerolog.WarnLevel,
		"error":    zerolog.ErrorLevel,
		"":         zerolog.DebugLevel,
		"nonsense": zerolog.DebugLevel,
	}
	for in, want := range cases {
		if got := level(in); got != want {
			t.Errorf("level(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestBuild_JSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "info", Format: "json", Service: "chromalyzer-api", Component: "analysis", Writer: &buf})

	l.Debug().Msg("dropped")
	l.Info().Int("peaks", 3).Msg("detected")

	var line map[string]any
	if err := json.Unmarshal(buf.Bytes(), &line); err != nil {
		t.Fatalf("one json line expected, got %q: %v", buf.String(), err)
	}
	for k, want := range map[string]any{
		"level": "info", "message": "detected", "service": "chromalyzer-api", "component": "analysis", "peaks": 3.0,
	} {
		if line[k] != want {
			t.Errorf("%s = %v, want %v", k, line[k], want)
		}
	}
}

func TestBuild_ConsoleAndSampling(t *testing.T) {
	var buf bytes.Buffer
	l := build(Options{Level: "debug", Format: "console", Writer: &buf, WithCaller: true, SampleEvery: 2})
	for i := 0; i < 4; i++ {
		l.Info().Msg("tick")
	}
	if n := bytes.Count(buf.Bytes(), []byte("tick")); n != 2 {
		t.Fatalf("sampled lines = %d, want 2", n)
	}
	if !bytes.Contains(buf.Bytes(), []byte("logger_test.go")) {
		t.Fatalf("caller missing: %q", buf.String())
	}
}

func TestContextFields(t *testing.T) {
	ctx := WithAnalysis(WithRequest(context.Background(), "rid-7"), "0f3c", "run-01.csv")
	tests := []struct {
		name string
		ctx  context.Context
		want map[string]string
	}{
		{"all", ctx, map[string]string{"request_id": "rid-7", "analysis_id": "0f3c", "trace": "run-01.csv"}},
		{"blank values skipped", WithAnalysis(WithRequest(context.Background(), ""), "", ""), map[string]string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, f := range ctxFields {
				v, _ := tt.ctx.Value(f.key).(string)
				if v != tt.want[f.name] {
					t.Fatalf("%s = %q, want %q", f.name, v, tt.want[f.name])
				}
			}
		})
	}
}

func TestFromEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	t.Setenv("LOG_FORMAT", "JSON")
	t.Setenv("LOG_SERVICE", "chromalyzer")
	t.Setenv("LOG_CALLER", "true")
	t.Setenv("LOG_SAMPLE_EVERY", "5")

	o := FromEnv()
	if o.Level != "warn" || o.Format != "json" || o.Service != "chromalyzer" || !o.WithCaller || o.SampleEvery != 5 {
		t.Fatalf("FromEnv = %+v", o)
	}
}

func TestNamedAndC(t *testing.T) {
	if Named("") != Get() {
		t.Fatalf("empty component should return the root")
	}
	if Named("pg") == Get() || C(context.Background()) == Get() {
		t.Fatalf("children must not alias the root")
	}
}
