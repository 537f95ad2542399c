// Package checkout gates the continue action on shipping completeness and
// drives the submission of a finished order.
package checkout

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ShippingDetails is transient view state: it is never written to the
// profile store, only carried into the submission payload.
type ShippingDetails struct {
	FirstName   string `json:"firstName" validate:"notblank"`
	LastName    string `json:"lastName" validate:"notblank"`
	Email       string `json:"email" validate:"notblank"`
	Address     string `json:"address" validate:"notblank"`
	HouseNumber string `json:"houseNumber" validate:"notblank"`
	City        string `json:"city" validate:"notblank"`
	State       string `json:"state" validate:"notblank"`
	PinCode     string `json:"pinCode" validate:"notblank"`
	Phone       string `json:"phone" validate:"notblank"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" {
			return f.Name
		}
		return tag
	})
	// Completeness is presence only: non-empty after trimming. Email, phone
	// and PIN shapes are deliberately not checked here.
	if err := v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	}); err != nil {
		panic(err)
	}
	return v
}

// Complete reports whether every required shipping field is non-empty after
// trimming. Meant to be re-evaluated on every field change.
func Complete(details ShippingDetails) bool {
	return validate.Struct(details) == nil
}

// MissingFields names the fields blocking submission, in declaration order.
func MissingFields(details ShippingDetails) []string {
	err := validate.Struct(details)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{"shipping details"}
	}
	missing := make([]string, 0, len(errs))
	for _, fieldErr := range errs {
		missing = append(missing, fieldErr.Field())
	}
	return missing
}
