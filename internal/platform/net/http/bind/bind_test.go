package bind

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"

	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/testkit"
)

type traceDTO struct {
	Label     string    `json:"label" validate:"required,max=16"`
	Time      []float64 `json:"time" validate:"required,min=1"`
	Intensity []float64 `json:"intensity" validate:"required,min=1"`
	Note      string    `json:"-"`
}

func post(body string) *http.Request {
	return httptest.NewRequest(http.MethodPost, "/analyses/trace", strings.NewReader(body))
}

func TestParseJSON(t *testing.T) {
	tests := []struct {
		name  string
		req   *http.Request
		opts  []JSONOptions
		code  perr.ErrorCode
		field string
	}{
		{name: "empty post", req: post(""), code: perr.ErrorCodeJSON},
		{name: "malformed", req: post(`{"label":`), code: perr.ErrorCodeJSON},
		{name: "unknown field", req: post(`{"label":"a","time":[0],"intensity":[1],"unit":"pA"}`), code: perr.ErrorCodeJSON},
		{name: "over limit", req: post(`{"label":"run-01","time":[0,1,2,3,4,5,6,7,8,9],"intensity":[1]}`), opts: []JSONOptions{{MaxBytes: 24, DisallowUnknown: true}}, code: perr.ErrorCodeJSON},
		{name: "missing intensity", req: post(`{"label":"a","time":[0]}`), code: perr.ErrorCodeValidation, field: "intensity"},
		{name: "label too long", req: post(`{"label":"a-very-long-run-label","time":[0],"intensity":[1]}`), code: perr.ErrorCodeValidation, field: "label"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON[traceDTO](tt.req, tt.opts...)
			if !perr.IsCode(err, tt.code) {
				t.Fatalf("err = %v, want code %v", err, tt.code)
			}
			if tt.field != "" {
				if w := perr.WireFrom(err); w.Field != tt.field {
					t.Fatalf("field = %q, want %q", w.Field, tt.field)
				}
			}
		})
	}
}

func TestParseJSON_Accepts(t *testing.T) {
	in, err := ParseJSON[traceDTO](post(`{"label":"run-01","time":[0,1],"intensity":[1,9]}`))
	if err != nil || in.Label != "run-01" || len(in.Intensity) != 2 {
		t.Fatalf("in = %+v err = %v", in, err)
	}

	loose, err := ParseJSON[traceDTO](post(`{"label":"x","time":[0],"intensity":[1],"unit":"pA"}`), JSONOptions{})
	if err != nil || loose.Label != "x" {
		t.Fatalf("unknown fields allowed: %+v %v", loose, err)
	}

	get := httptest.NewRequest(http.MethodGet, "/", strings.NewReader(""))
	if _, err := ParseJSON[traceDTO](get); err != nil {
		t.Fatalf("empty GET body: %v", err)
	}

	type opt struct {
		Top int `json:"top"`
	}
	if v, err := ParseJSON[opt](post(""), JSONOptions{AllowEmptyBody: true}); err != nil || v.Top != 0 {
		t.Fatalf("allowed empty body: %+v %v", v, err)
	}
}

func TestParseJSON_TrailingData(t *testing.T) {
	testkit.Swap(t, &jsonMore, func(*json.Decoder) bool { return true })
	if _, err := ParseJSON[traceDTO](post(`{"label":"a","time":[0],"intensity":[1]}`)); !perr.IsCode(err, perr.ErrorCodeJSON) {
		t.Fatalf("err = %v", err)
	}
}

func TestValidate_NonStructIsInternal(t *testing.T) {
	if err := Validate(42); !perr.IsCode(err, perr.ErrorCodeUnknown) {
		t.Fatalf("err = %v", err)
	}
}

func TestFirstFailure(t *testing.T) {
	c := shared()
	err := c.v.Struct(traceDTO{Label: "a", Time: []float64{}, Intensity: []float64{1}})
	fld, msg := c.first(err)
	if fld != "time" || msg != "time must be at least 1" {
		t.Fatalf("field %q msg %q", fld, msg)
	}
	if f, m := c.first(errors.New("plain")); f != "" || m != "plain" {
		t.Fatalf("plain = %q %q", f, m)
	}
	if f, m := c.first(nil); f != "" || m != "" {
		t.Fatalf("nil = %q %q", f, m)
	}
}

func TestTagName(t *testing.T) {
	type dto struct {
		A string `json:"alpha,omitempty"`
		B *int   `form:"min_distance"`
		C string `json:"-" form:"ignored"`
		D string
	}
	err := Validate(struct {
		V dto `json:"v" validate:"required"`
	}{})
	if w := perr.WireFrom(err); w.Field != "v" {
		t.Fatalf("field = %q", w.Field)
	}
	rt := reflect.TypeOf(dto{})
	want := []string{"alpha", "min_distance", "C", "D"}
	for i, w := range want {
		if got := tagName(rt.Field(i)); got != w {
			t.Fatalf("tagName(%s) = %q, want %q", rt.Field(i).Name, got, w)
		}
	}
}
