package validator

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"tmgear/internal/domain/model"
	"tmgear/internal/usecase"

	"github.com/go-playground/validator/v10"
)

// 入力が不正
var ErrInvalidInput = errors.New("invalid input")

// Validator はstructタグ（validate:"..."）で検証する。
// echo.Validator としても使う。
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())

	// エラーに出すフィールド名はjsonの名前
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return &Validator{v: v}
}

// Usecaseは interface を依存注入
func NewCheckoutValidator() usecase.CheckoutValidator {
	return New()
}

// echo.Validator
func (v *Validator) Validate(i interface{}) error {
	return wrap(v.v.Struct(i))
}

// 配送先フォームを検証（前後の空白だけの値は未入力扱い）
func (v *Validator) ValidateCheckout(form model.CheckoutForm) error {
	form.FirstName = strings.TrimSpace(form.FirstName)
	form.LastName = strings.TrimSpace(form.LastName)
	form.Email = strings.TrimSpace(form.Email)
	form.Address = strings.TrimSpace(form.Address)
	form.City = strings.TrimSpace(form.City)
	form.Zip = strings.TrimSpace(form.Zip)

	return wrap(v.v.Struct(form))
}

// 最初のエラーのフィールド名だけ返す
func wrap(err error) error {
	if err == nil {
		return nil
	}

	var ve validator.ValidationErrors
	if errors.As(err, &ve) && len(ve) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidInput, ve[0].Field())
	}
	return ErrInvalidInput
}
