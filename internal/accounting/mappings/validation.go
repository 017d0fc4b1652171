package mappings

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
	_ = v.RegisterValidation("mapping_type", func(fl validator.FieldLevel) bool {
		return MappingType(fl.Field().String()).Valid()
	})
	_ = v.RegisterValidation("voucher_type", func(fl validator.FieldLevel) bool {
		return VoucherType(fl.Field().String()).Valid()
	})
	return v
}

// translate converts validator failures into the accounting error set.
func translate(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("%w: %v", httpx.ErrValidation, err)
	}
	fe := fieldErrs[0]
	switch fe.Tag() {
	case "mapping_type":
		return fmt.Errorf("%w: %q", shared.ErrUnknownMappingType, fe.Value())
	case "voucher_type":
		return fmt.Errorf("%w: %q", shared.ErrUnknownVoucherType, fe.Value())
	case "required":
		return fmt.Errorf("%w: %s is required", httpx.ErrValidation, fe.Field())
	default:
		return fmt.Errorf("%w: %s failed %s", httpx.ErrValidation, fe.Field(), fe.Tag())
	}
}
