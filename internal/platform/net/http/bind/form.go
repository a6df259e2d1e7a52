package bind

import (
	"errors"
	"io"
	"maps"
	"net/http"
	"net/url"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/form/v4"

	perr "chromalyzer/internal/platform/errors"
)

// FormOptions controls multipart parsing
type FormOptions struct {
	MaxBytes  int64 // whole request, default 32MB
	MaxMemory int64 // in-memory part budget, default 8MB
}

func defaultFormOptions() FormOptions {
	return FormOptions{MaxBytes: 32 << 20, MaxMemory: 8 << 20}
}

// File is an uploaded part read fully into memory
type File struct {
	Name string
	Size int64
	Data []byte
}

// ParseMultipart reads the file part named field and decodes the remaining
// form values into T using `form` struct tags, then validates T
func ParseMultipart[T any](r *http.Request, field string, opts ...FormOptions) (File, T, error) {
	var zero T
	o := defaultFormOptions()
	if len(opts) > 0 {
		if opts[0].MaxBytes > 0 {
			o.MaxBytes = opts[0].MaxBytes
		}
		if opts[0].MaxMemory > 0 {
			o.MaxMemory = opts[0].MaxMemory
		}
	}
	r.Body = http.MaxBytesReader(nil, r.Body, o.MaxBytes)
	if err := r.ParseMultipartForm(o.MaxMemory); err != nil {
		var mbe *http.MaxBytesError
		if errors.As(err, &mbe) {
			return File{}, zero, perr.InvalidArgf("upload exceeds %d bytes", o.MaxBytes)
		}
		return File{}, zero, perr.Wrap(err, perr.ErrorCodeValidation, "invalid multipart form")
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	f, hdr, err := r.FormFile(field)
	if err != nil {
		return File{}, zero, perr.WithField(perr.Newf(perr.ErrorCodeValidation, "%s is required", field), field)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return File{}, zero, perr.Wrap(err, perr.ErrorCodeValidation, "read upload")
	}

	var dst T
	if err := DecodeForm(r.MultipartForm.Value, &dst); err != nil {
		return File{}, zero, err
	}
	if err := Validate(dst); err != nil {
		return File{}, zero, err
	}
	return File{Name: hdr.Filename, Size: hdr.Size, Data: data}, dst, nil
}

// formDecoder only fills fields that carry a `form` tag
var formDecoder = sync.OnceValue(func() *form.Decoder {
	d := form.NewDecoder()
	d.SetTagName("form")
	d.SetMode(form.ModeExplicit)
	return d
})

// DecodeForm assigns values to the fields of *dst tagged `form:"name"`.
// Values are trimmed; missing or blank ones leave the field untouched
func DecodeForm(values map[string][]string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return perr.Internalf("bind: DecodeForm wants a struct pointer, got %T", dst)
	}
	clean := make(url.Values, len(values))
	for k, vs := range values {
		if len(vs) == 0 {
			continue
		}
		if v := strings.TrimSpace(vs[0]); v != "" {
			clean[k] = []string{v}
		}
	}

	err := formDecoder().Decode(dst, clean)
	var de form.DecodeErrors
	switch {
	case err == nil:
		return nil
	case errors.As(err, &de):
		names := slices.Sorted(maps.Keys(de))
		name := names[0]
		return perr.WithField(perr.Wrapf(de[name], perr.ErrorCodeValidation, "%s is malformed", name), name)
	}
	return perr.Wrap(err, perr.ErrorCodeValidation, "invalid form")
}
