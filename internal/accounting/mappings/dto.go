package mappings

// CreateInput carries the fields accepted when creating a mapping.
type CreateInput struct {
	LocationID   string `json:"location_id" validate:"required,max=32"`
	LocationName string `json:"location_name" validate:"max=128"`
	MappingType  string `json:"mapping_type" validate:"required,mapping_type"`
	AccountCode  string `json:"account_code" validate:"required,max=32"`
	VoucherType  string `json:"voucher_type" validate:"required,voucher_type"`
	IsActive     *bool  `json:"is_active"`
	CreatedBy    string `json:"created_by" validate:"max=64"`
}

// UpdateInput is a partial update; nil fields are left untouched.
type UpdateInput struct {
	LocationName *string `json:"location_name" validate:"omitempty,max=128"`
	AccountCode  *string `json:"account_code" validate:"omitempty,min=1,max=32"`
	IsActive     *bool   `json:"is_active"`
	UpdatedBy    string  `json:"updated_by" validate:"max=64"`
}
