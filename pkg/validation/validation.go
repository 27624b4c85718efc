// Package validation checks request and configuration structs against their
// `validate` tags and reports violations as INVALID_ARGUMENT errors.
package validation

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"

	"ringkasan/pkg/apperror"
)

var (
	defaultValidator = validator.New()
	defaultEn        = en.New()
	uni              = ut.New(defaultEn, defaultEn)
	trans, _         = uni.GetTranslator(defaultEn.Locale())
)

// Struct validates s. Field names in messages follow the env or json tags.
func Struct(s any) error {
	err := defaultValidator.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.InvalidArgument("%v", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, e.Translate(trans))
	}
	return apperror.InvalidArgument("%s", strings.Join(msgs, "; "))
}

// Var validates a single value against tag.
func Var(v any, tag string) error {
	err := defaultValidator.Var(v, tag)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		return apperror.InvalidArgument("%s", verrs[0].Translate(trans))
	}
	return apperror.InvalidArgument("%v", err)
}

func registerTranslation(tag, msg string) error {
	return defaultValidator.RegisterTranslation(
		tag,
		trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, msg, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}

func init() {
	defaultValidator.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := f.Tag.Get("env")
		if name == "" {
			name = strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		}
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})

	if err := entranslations.RegisterDefaultTranslations(defaultValidator, trans); err != nil {
		fmt.Fprintln(os.Stderr, "validation register default translations:", err)
		os.Exit(1)
	}

	if err := defaultValidator.RegisterValidation("notblank", func(level validator.FieldLevel) bool {
		return strings.TrimSpace(level.Field().String()) != ""
	}); err != nil {
		fmt.Fprintln(os.Stderr, "validation notblank:", err)
		os.Exit(1)
	}
	if err := registerTranslation("notblank", "{0} must not be blank"); err != nil {
		fmt.Fprintln(os.Stderr, "validation notblank:", err)
		os.Exit(1)
	}
}
