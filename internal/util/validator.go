package util

import (
	"elearning_backend/internal/model"
	"errors"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

const roleTag = "role"

var translator ut.Translator

// InitValidators hooks English messages and the custom "role" tag into gin's
// validator engine. Safe to call more than once.
func InitValidators() error {
	validate, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return errors.New("unexpected gin validator engine")
	}

	uni := ut.New(en.New())
	translator, _ = uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, translator); err != nil {
		return err
	}

	// report json/form names instead of Go field names
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		for _, tag := range []string{"json", "form"} {
			name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return fld.Name
	})

	if err := validate.RegisterValidation(roleTag, func(fl validator.FieldLevel) bool {
		_, err := model.ParseRole(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return validate.RegisterTranslation(roleTag, translator,
		func(t ut.Translator) error {
			return t.Add(roleTag, "{0} must be one of student, instructor, admin", true)
		},
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(roleTag, fe.Field())
			return s
		},
	)
}

// BindingErrorMessage turns a ShouldBind error into a readable sentence.
func BindingErrorMessage(err error) string {
	var verrs validator.ValidationErrors
	if translator == nil || !errors.As(err, &verrs) {
		return err.Error()
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(translator))
	}
	return strings.Join(msgs, "; ")
}
