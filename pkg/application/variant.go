package application

import (
	"errors"
	"fmt"
	"strings"
)

// Variant discriminates the application flows.
type Variant string

const (
	VariantIndividual Variant = "individual"
	VariantInstitute  Variant = "institute"
	VariantEnquiry    Variant = "enquiry"
)

// ErrUnknownVariant reports an unrecognised variant tag.
var ErrUnknownVariant = errors.New("application: unknown variant")

// Variants lists the supported variants in presentation order.
func Variants() []Variant {
	return []Variant{VariantIndividual, VariantInstitute, VariantEnquiry}
}

// ParseVariant resolves a variant tag case-insensitively.
func ParseVariant(raw string) (Variant, error) {
	switch Variant(strings.ToLower(strings.TrimSpace(raw))) {
	case VariantIndividual:
		return VariantIndividual, nil
	case VariantInstitute:
		return VariantInstitute, nil
	case VariantEnquiry:
		return VariantEnquiry, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownVariant, raw)
	}
}

func (v Variant) String() string {
	return string(v)
}
