package domain

import "fmt"

// ProvinceReference maps two-character province identifiers to their
// display names. A nil map is a valid, empty reference.
type ProvinceReference map[string]string

// DisplayName returns the name registered for a province identifier.
// Unknown or unnamed provinces resolve to "Unknown (<id>)" so that
// reports stay readable when the reference file is absent or stale.
func (r ProvinceReference) DisplayName(provinceID string) string {
	if name, ok := r[provinceID]; ok && name != "" {
		return name
	}
	return fmt.Sprintf("Unknown (%s)", provinceID)
}
