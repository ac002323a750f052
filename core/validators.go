package core

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	requiredTag     = "required"
	requiredWithTag = "required_with"
	requiredText    = "this field is required"
)

func init() {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	Translator, _ = uni.GetTranslator("en")

	Validate = validator.New()
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	RegisterCustomTranslation(requiredTag, requiredText, true)
	RegisterCustomTranslation(requiredWithTag, requiredText, true)
}

// RegisterCustomTranslation registers a custom translation for the specified validation tag.
func RegisterCustomTranslation(tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// TranslateValidationErrors turns validator errors into our ValidationError
// so stores only ever surface one error shape.
func TranslateValidationErrors(err error) error {
	vErrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}
	flds := make([]FieldError, 0, len(vErrs))
	for _, vErr := range vErrs {
		flds = append(flds, FieldError{Field: vErr.Field(), Error: vErr.Translate(Translator)})
	}
	return NewValidationError(err, flds...)
}
