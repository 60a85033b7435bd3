package validator

import (
	"errors"
	"strings"
	"sync"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

// Validator validates structs and translates field errors into
// user-correctable messages.
type Validator interface {
	Struct(s any) error
	GetValidator() *validator.Validate
}

// Validate is the global validator instance.
var (
	Validate Validator
	once     sync.Once
)

func init() {
	once.Do(func() {
		Validate = New()
	})
}

type validatorImpl struct {
	validator  *validator.Validate
	translator ut.Translator
}

// New creates a validator with English translations registered.
func New() Validator {
	v := &validatorImpl{
		validator: validator.New(),
	}

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	if trans, found := uni.GetTranslator("en"); found {
		v.translator = trans
		_ = en_translations.RegisterDefaultTranslations(v.validator, trans)
	}

	return v
}

// Struct validates a struct and returns a translated error.
func (v *validatorImpl) Struct(s any) error {
	if s == nil {
		return errors.New("validation target cannot be nil")
	}

	err := v.validator.Struct(s)
	if err != nil {
		return v.translateError(err)
	}
	return nil
}

// GetValidator returns the underlying validator instance.
func (v *validatorImpl) GetValidator() *validator.Validate {
	return v.validator
}

func (v *validatorImpl) translateError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || v.translator == nil {
		return err
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fe.Translate(v.translator))
	}
	return errors.New(strings.Join(msgs, "; "))
}
