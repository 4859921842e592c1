package features

import (
	"strconv"
	"strings"
)

// FormatFeatures renders the raw vector as "X = (v0; v1; ...; vn)".
func FormatFeatures(v FeatureVector) string {
	parts := make([]string, len(v))
	for i, c := range v {
		parts[i] = strconv.Itoa(c)
	}
	return "X = (" + strings.Join(parts, "; ") + ")"
}

// FormatNormalized renders the normalized vector as
// "X_norm = (v0; v1; ...; vn)" with four decimal places per value.
func FormatNormalized(v NormalizedVector) string {
	parts := make([]string, len(v))
	for i, f := range v {
		parts[i] = strconv.FormatFloat(f, 'f', 4, 64)
	}
	return "X_norm = (" + strings.Join(parts, "; ") + ")"
}

// String renders both vectors separated by a blank line.
func (r *Result) String() string {
	return FormatFeatures(r.Features) + "\n\n" + FormatNormalized(r.Normalized)
}
