package user

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// Validator performs structural checks on request payloads and reports them
// as FieldErrors keyed by JSON field path.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	mustRegister(v, "notblank", validators.NotBlank)
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{v: v}
}

// mustRegister panics when a custom tag cannot be registered.
func mustRegister(v *validator.Validate, tag string, fn validator.Func) {
	if err := v.RegisterValidation(tag, fn); err != nil {
		panic(fmt.Sprintf("user: register %q validation: %v", tag, err))
	}
}

// Struct validates s. The returned error is FieldErrors or nil.
func (v *Validator) Struct(s any) error {
	return v.collect("", v.v.Struct(s))
}

// Phones validates every entry, prefixing keys with phones[i].
func (v *Validator) Phones(phones []PhoneRequest) error {
	errs := FieldErrors{}
	for i, p := range phones {
		if err := v.collect(fmt.Sprintf("phones[%d]", i), v.v.Struct(p)); err != nil {
			var fe FieldErrors
			if !errors.As(err, &fe) {
				return err
			}
			for k, msg := range fe {
				errs[k] = msg
			}
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func (v *Validator) collect(prefix string, err error) error {
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	errs := make(FieldErrors, len(verrs))
	for _, fe := range verrs {
		errs[fieldPath(prefix, fe.Namespace())] = fieldMessage(fe)
	}
	return errs
}

// fieldPath drops the root struct name from a validator namespace.
func fieldPath(prefix, namespace string) string {
	path := namespace
	if i := strings.Index(namespace, "."); i >= 0 {
		path = namespace[i+1:]
	}
	if prefix == "" {
		return path
	}
	return prefix + "." + path
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "notblank", "required":
		return fe.Field() + " is required"
	default:
		return fmt.Sprintf("%s failed on %s", fe.Field(), fe.Tag())
	}
}
