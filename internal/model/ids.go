package model

// -----------------------------------------------------------------------------
// Identifiers
// -----------------------------------------------------------------------------

// InstrumentID identifies a financial instrument (e.g., an ISIN or internal code).
type InstrumentID string

// VendorID identifies the vendor that supplied a price.
type VendorID string

// PricingID identifies a single accepted price record.
type PricingID string

// NewInstrumentID returns a provided instrument id.
func NewInstrumentID(v string) *InstrumentID {
	id := InstrumentID(v)
	return &id
}

// NewVendorID returns a provided vendor id.
func NewVendorID(v string) *VendorID {
	id := VendorID(v)
	return &id
}

// NewPricingID returns a provided pricing id.
func NewPricingID(v string) *PricingID {
	id := PricingID(v)
	return &id
}

// IsEmpty reports whether the id is missing or blank.
func (id *InstrumentID) IsEmpty() bool { return id == nil || *id == "" }

// Validate returns the defects of the id, if any.
func (id *InstrumentID) Validate() []string { return validateText("instrumentId", (*string)(id)) }

// String returns the underlying value, or "" when not provided.
func (id *InstrumentID) String() string { return textOf((*string)(id)) }

// IsEmpty reports whether the id is missing or blank.
func (id *VendorID) IsEmpty() bool { return id == nil || *id == "" }

// Validate returns the defects of the id, if any.
func (id *VendorID) Validate() []string { return validateText("vendorId", (*string)(id)) }

// String returns the underlying value, or "" when not provided.
func (id *VendorID) String() string { return textOf((*string)(id)) }

// IsEmpty reports whether the id is missing or blank.
func (id *PricingID) IsEmpty() bool { return id == nil || *id == "" }

// Validate returns the defects of the id, if any.
func (id *PricingID) Validate() []string { return validateText("id", (*string)(id)) }

// String returns the underlying value, or "" when not provided.
func (id *PricingID) String() string { return textOf((*string)(id)) }

// validateText applies the shared provided/blank rule to an optional string.
func validateText(name string, v *string) []string {
	switch {
	case v == nil:
		return []string{name + " must be provided"}
	case *v == "":
		return []string{name + " must not be blank"}
	default:
		return nil
	}
}

func textOf(v *string) string {
	if v == nil {
		return ""
	}
	return *v
}
