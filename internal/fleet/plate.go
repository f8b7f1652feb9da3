package fleet

import (
	"regexp"
	"strings"
)

// LicensePlate is a normalized, validated vehicle registration plate.
// Plates are unique across the fleet; uniqueness is enforced by the
// persistence layer, format is enforced here.
type LicensePlate string

var licensePlatePattern = regexp.MustCompile(`^[A-Z0-9]{3,10}$`)

// ParseLicensePlate trims, uppercases and validates a license plate.
func ParseLicensePlate(value string) (LicensePlate, error) {
	normalized := strings.ToUpper(strings.TrimSpace(value))
	if normalized == "" {
		return "", errValidation("license plate", "must not be empty")
	}
	if !licensePlatePattern.MatchString(normalized) {
		return "", errValidation("license plate", "must be 3-10 uppercase letters or digits")
	}
	return LicensePlate(normalized), nil
}

// IsValidLicensePlate reports whether a value would parse as a plate.
func IsValidLicensePlate(value string) bool {
	_, err := ParseLicensePlate(value)
	return err == nil
}

func (p LicensePlate) String() string { return string(p) }
