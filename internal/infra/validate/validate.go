package validate

import (
	"unicode"

	"github.com/go-playground/validator/v10"
)

// New returns a validator with the custom password strength rule
// registered: минимум 8 символов, заглавная буква и цифра.
func New() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("strongpwd", func(fl validator.FieldLevel) bool {
		pwd := fl.Field().String()
		var hasUpper, hasDigit bool
		runes := 0
		for _, r := range pwd {
			runes++
			if unicode.IsUpper(r) {
				hasUpper = true
			}
			if unicode.IsDigit(r) {
				hasDigit = true
			}
		}
		return runes >= 8 && hasUpper && hasDigit
	})
	return v
}
