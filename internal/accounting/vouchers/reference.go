package vouchers

import (
	"fmt"
	"strings"

	"github.com/odyssey-erp/payroll-jv/internal/accounting/mappings"
	"github.com/odyssey-erp/payroll-jv/internal/accounting/shared"
)

// ReferenceNo builds the idempotency key {type}/{MM}/{YY}, e.g. JVSL/03/25.
func ReferenceNo(vt mappings.VoucherType, year, month int) string {
	return fmt.Sprintf("%s/%02d/%02d", vt, month, year%100)
}

// NormalizeTypes uppercases, validates and deduplicates requested voucher
// types into generation order. Empty input selects every type.
func NormalizeTypes(requested []string) ([]mappings.VoucherType, error) {
	if len(requested) == 0 {
		return append([]mappings.VoucherType(nil), mappings.VoucherTypes...), nil
	}
	want := make(map[mappings.VoucherType]bool, len(requested))
	for _, raw := range requested {
		vt := mappings.VoucherType(strings.ToUpper(strings.TrimSpace(raw)))
		if !vt.Valid() {
			return nil, fmt.Errorf("%w: %q", shared.ErrUnknownVoucherType, raw)
		}
		want[vt] = true
	}
	out := make([]mappings.VoucherType, 0, len(want))
	for _, vt := range mappings.VoucherTypes {
		if want[vt] {
			out = append(out, vt)
		}
	}
	return out, nil
}
