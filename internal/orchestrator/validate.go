package orchestrator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// requestValidator validates inbound requests with English messages that
// use JSON field names.
type requestValidator struct {
	v     *validator.Validate
	trans ut.Translator
}

func newRequestValidator() *requestValidator {
	enLoc := en.New()
	uni := ut.New(enLoc, enLoc)
	trans, _ := uni.GetTranslator("en")

	v := validator.New(validator.WithRequiredStructEnabled())

	// prefer json tag names in messages
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "-" || tag == "" {
			return fld.Name
		}
		if idx := strings.Index(tag, ","); idx >= 0 {
			tag = tag[:idx]
		}
		return tag
	})

	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &requestValidator{v: v, trans: trans}
}

// check returns nil or an ErrInvalidRequest carrying every field message.
func (rv *requestValidator) check(s any) error {
	err := rv.v.Struct(s)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%v: %w", err, ErrInvalidRequest)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(rv.trans))
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, "; "), ErrInvalidRequest)
}
