package mappings

import "time"

// VoucherType identifies the journal voucher family a mapping posts to.
type VoucherType string

const (
	// VoucherDirector is the director remuneration voucher.
	VoucherDirector VoucherType = "JVDR"
	// VoucherStaff is the staff salary and wages voucher.
	VoucherStaff VoucherType = "JVSL"
)

// VoucherTypes lists voucher types in generation order.
var VoucherTypes = []VoucherType{VoucherDirector, VoucherStaff}

// Valid reports whether v is a known voucher type.
func (v VoucherType) Valid() bool {
	return v == VoucherDirector || v == VoucherStaff
}

// MappingType is the semantic category of an amount.
type MappingType string

const (
	MappingSalary        MappingType = "salary"
	MappingOvertime      MappingType = "overtime"
	MappingBonus         MappingType = "bonus"
	MappingCommission    MappingType = "commission"
	MappingCommissionA   MappingType = "commission_a"
	MappingCommissionB   MappingType = "commission_b"
	MappingLeavePayout   MappingType = "cuti_tahunan"
	MappingSpecialOT     MappingType = "special_ot"
	MappingEPFEmployer   MappingType = "epf_employer"
	MappingSOCSOEmployer MappingType = "socso_employer"
	MappingSIPEmployer   MappingType = "sip_employer"
	MappingAccrualSalary MappingType = "accrual_salary"
	MappingAccrualEPF    MappingType = "accrual_epf"
	MappingAccrualSOCSO  MappingType = "accrual_socso"
	MappingAccrualSIP    MappingType = "accrual_sip"
	MappingAccrualPCB    MappingType = "accrual_pcb"
)

var mappingTypes = map[MappingType]struct{}{
	MappingSalary: {}, MappingOvertime: {}, MappingBonus: {}, MappingCommission: {},
	MappingCommissionA: {}, MappingCommissionB: {}, MappingLeavePayout: {}, MappingSpecialOT: {},
	MappingEPFEmployer: {}, MappingSOCSOEmployer: {}, MappingSIPEmployer: {},
	MappingAccrualSalary: {}, MappingAccrualEPF: {}, MappingAccrualSOCSO: {},
	MappingAccrualSIP: {}, MappingAccrualPCB: {},
}

// Valid reports whether m belongs to the closed mapping type set.
func (m MappingType) Valid() bool {
	_, ok := mappingTypes[m]
	return ok
}

// LocationAccountMapping links a location and amount category to a ledger account.
type LocationAccountMapping struct {
	ID                 int64       `json:"id"`
	LocationID         string      `json:"location_id"`
	LocationName       string      `json:"location_name"`
	MappingType        MappingType `json:"mapping_type"`
	AccountCode        string      `json:"account_code"`
	AccountDescription string      `json:"account_description,omitempty"`
	VoucherType        VoucherType `json:"voucher_type"`
	IsActive           bool        `json:"is_active"`
	CreatedBy          string      `json:"created_by,omitempty"`
	UpdatedBy          string      `json:"updated_by,omitempty"`
	CreatedAt          time.Time   `json:"created_at"`
	UpdatedAt          time.Time   `json:"updated_at"`
}

// ListFilter narrows List results. Zero values mean "any".
type ListFilter struct {
	VoucherType VoucherType
	LocationID  string
	IsActive    *bool
}
