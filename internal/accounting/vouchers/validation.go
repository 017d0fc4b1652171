package vouchers

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
	"github.com/odyssey-erp/payroll-jv/internal/platform/httpx"
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

var periodFields = map[string]bool{"year": true, "month": true}

// translate names the first failing field. Period fields map to ErrInvalidPeriod.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	fe := fieldErrs[0]
	kind := httpx.ErrValidation
	if periodFields[fe.Field()] {
		kind = shared.ErrInvalidPeriod
	}
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("%w: %s is required", kind, fe.Field())
	case "gte":
		return fmt.Errorf("%w: %s must be at least %s, got %v", kind, fe.Field(), fe.Param(), fe.Value())
	case "lte":
		return fmt.Errorf("%w: %s must be at most %s, got %v", kind, fe.Field(), fe.Param(), fe.Value())
	default:
		return fmt.Errorf("%w: %s failed %s", kind, fe.Field(), fe.Tag())
	}
}
