package shared

import "fmt"

// SystemActor is recorded when a request carries no actor.
const SystemActor = "system"

// PayrollVoucherLockKey builds the redis key guarding voucher generation for a period.
func PayrollVoucherLockKey(year, month int) string {
	return fmt.Sprintf("payroll:jv:%04d-%02d:lock", year, month)
}
