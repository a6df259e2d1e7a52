package bind

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	perr "chromalyzer/internal/platform/errors"
	"chromalyzer/internal/platform/logger"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// checker is a validator with English messages that name fields the way
// clients spell them
type checker struct {
	v  *validator.Validate
	tr ut.Translator
}

var shared = sync.OnceValue(func() *checker {
	loc := en.New()
	tr, _ := ut.New(loc, loc).GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(tagName)
	_ = en_translations.RegisterDefaultTranslations(v, tr)

	c := &checker{v: v, tr: tr}
	c.message("min", "{0} must be at least {1}")
	c.message("max", "{0} must be at most {1}")
	return c
})

// message overrides the stock translation for tag
func (c *checker) message(tag, text string) {
	_ = c.v.RegisterTranslation(tag, c.tr,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field(), fe.Param())
			return s
		},
	)
}

// tagName prefers the json name, then the form name, then the Go name
func tagName(f reflect.StructField) string {
	for _, key := range [...]string{"json", "form"} {
		name, _, _ := strings.Cut(f.Tag.Get(key), ",")
		if name == "-" {
			break
		}
		if name != "" {
			return name
		}
	}
	return f.Name
}

// Validate checks v's validate tags. The first failing field becomes the
// Field of the returned Validation error
func Validate(v any) error {
	c := shared()
	err := c.v.Struct(v)
	if err == nil {
		return nil
	}
	var bad *validator.InvalidValidationError
	if errors.As(err, &bad) {
		logger.Get().Error().Err(bad).Msg("validator misuse")
		return perr.Internalf("validation error")
	}
	field, msg := c.first(err)
	return perr.WithField(perr.New(perr.ErrorCodeValidation, msg), field)
}

// first returns the first failing field with its translated message. Errors
// that are not validation failures report their own text and no field
func (c *checker) first(err error) (field, msg string) {
	if err == nil {
		return "", ""
	}
	var fails validator.ValidationErrors
	if !errors.As(err, &fails) || len(fails) == 0 {
		return "", err.Error()
	}
	return fails[0].Field(), fails[0].Translate(c.tr)
}
