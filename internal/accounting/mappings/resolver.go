package mappings

type resolverKey struct {
	location    string
	mappingType MappingType
}

// Resolver answers account lookups for one voucher type from a fixed mapping set.
type Resolver struct {
	voucher  VoucherType
	accounts map[resolverKey]string
}

// NewResolver indexes the active rows of rows that belong to voucher.
func NewResolver(voucher VoucherType, rows []LocationAccountMapping) *Resolver {
	r := &Resolver{voucher: voucher, accounts: make(map[resolverKey]string, len(rows))}
	for _, m := range rows {
		if !m.IsActive || m.VoucherType != voucher {
			continue
		}
		r.accounts[resolverKey{location: m.LocationID, mappingType: m.MappingType}] = m.AccountCode
	}
	return r
}

// VoucherType returns the voucher type the resolver was built for.
func (r *Resolver) VoucherType() VoucherType {
	return r.voucher
}

// Resolve returns the account code mapped for location and mappingType.
func (r *Resolver) Resolve(location string, mappingType MappingType) (string, bool) {
	if r == nil {
		return "", false
	}
	code, ok := r.accounts[resolverKey{location: location, mappingType: mappingType}]
	return code, ok
}
