package utils

import (
	"errors"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate *validator.Validate

	translator ut.Translator

	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]+$`)
	htmlTagPattern  = regexp.MustCompile(`</?[^>]+(>|$)`)
)

func InitValidator() {
	if Validate != nil {
		return
	}
	v := validator.New()
	v.RegisterTagNameFunc(fieldName)
	_ = v.RegisterValidation("username", validateUsername)
	_ = v.RegisterValidation("notblank", validateNotBlank)
	_ = v.RegisterValidation("richtext_min", validateRichTextMin)
	_ = v.RegisterValidation("maxbytes", validateMaxBytes)

	locale := en.New()
	trans, _ := ut.New(locale, locale).GetTranslator("en")
	_ = entranslations.RegisterDefaultTranslations(v, trans)
	registerMessage(v, trans, "username", "{0} can only contain letters, numbers and underscores")
	registerMessage(v, trans, "notblank", "{0} cannot be blank")
	registerMessage(v, trans, "richtext_min", "{0} must be at least {1} characters long")
	registerMessage(v, trans, "maxbytes", "{0} must be at most {1} bytes long")
	registerMessage(v, trans, "eqfield", "{0} does not match {1}")

	translator = trans
	Validate = v
}

// fieldName reports fields by their json (or form) name so messages match
// what the client sent.
func fieldName(field reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(field.Tag.Get(tag), ",", 2)[0]
		if name != "" && name != "-" {
			return name
		}
	}
	return ""
}

func registerMessage(v *validator.Validate, trans ut.Translator, tag, text string) {
	_ = v.RegisterTranslation(tag, trans, func(t ut.Translator) error {
		return t.Add(tag, text, true)
	}, func(t ut.Translator, fe validator.FieldError) string {
		msg, err := t.T(tag, fe.Field(), strings.ToLower(fe.Param()))
		if err != nil {
			return fe.Error()
		}
		return msg
	})
}

// ValidationError turns validator errors into one readable message per
// failed field. Anything else is returned unchanged.
func ValidationError(err error) error {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || translator == nil {
		return err
	}
	msgs := make([]string, 0, len(errs))
	for _, fe := range errs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return errors.New(strings.Join(msgs, "; "))
}

func validateUsername(fl validator.FieldLevel) bool {
	return usernamePattern.MatchString(fl.Field().String())
}

func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// validateRichTextMin checks the visible length of an HTML fragment, tags
// stripped and whitespace trimmed.
func validateRichTextMin(fl validator.FieldLevel) bool {
	min, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return utf8.RuneCountInString(StripTags(fl.Field().String())) >= min
}

// validateMaxBytes limits the encoded length, unlike max which counts runes.
func validateMaxBytes(fl validator.FieldLevel) bool {
	max, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}
	return len(fl.Field().String()) <= max
}

func StripTags(html string) string {
	return strings.TrimSpace(htmlTagPattern.ReplaceAllString(html, ""))
}
