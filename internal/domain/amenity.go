package domain

import "fmt"

// exclusiveAmenities pairs toggles that cannot both be set on a listing.
var exclusiveAmenities = map[string]string{
	"smoking_allowed": "no_smoking",
	"no_smoking":      "smoking_allowed",
	"pets_allowed":    "no_pets",
	"no_pets":         "pets_allowed",
	"parties_allowed": "no_parties",
	"no_parties":      "parties_allowed",
}

// ExclusiveCounterpart returns the amenity that cannot coexist with a.
func ExclusiveCounterpart(a string) (string, bool) {
	other, ok := exclusiveAmenities[a]
	return other, ok
}

// ToggleAmenity flips amenity in the set. Turning on one side of an exclusive
// pair turns the other side off.
func ToggleAmenity(amenities []string, amenity string) []string {
	out := make([]string, 0, len(amenities)+1)
	present := false
	other, paired := ExclusiveCounterpart(amenity)
	for _, a := range amenities {
		if a == amenity {
			present = true
			continue
		}
		if paired && a == other {
			continue
		}
		out = append(out, a)
	}
	if present {
		// toggled off; the counterpart stays as it was
		if paired && contains(amenities, other) {
			out = append(out, other)
		}
		return out
	}
	return append(out, amenity)
}

// ValidateAmenities rejects sets that contain both sides of an exclusive pair.
func ValidateAmenities(amenities []string) error {
	for _, a := range amenities {
		if other, ok := ExclusiveCounterpart(a); ok && contains(amenities, other) {
			return fmt.Errorf("%w: %s and %s", ErrExclusiveAmenity, a, other)
		}
	}
	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
