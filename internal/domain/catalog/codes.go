package catalog

import "strings"

// CodeSet is one (category, type, classification) proposal. Codes are kept
// canonical: two-character zero-padded digit strings, empty when absent.
type CodeSet struct {
	Category       string `json:"category"`
	Type           string `json:"type"`
	Classification string `json:"classification"`
}

// Signature is the canonical grouping key for a proposal. Two proposals are
// the same iff their signatures are equal. "|" never occurs inside a code.
func (c CodeSet) Signature() string {
	return c.Category + "|" + c.Type + "|" + c.Classification
}

func (c CodeSet) IsZero() bool {
	return c.Category == "" && c.Type == "" && c.Classification == ""
}

// Canonical returns the set with every code zero-padded.
func (c CodeSet) Canonical() CodeSet {
	return CodeSet{
		Category:       PadCode(c.Category),
		Type:           PadCode(c.Type),
		Classification: PadCode(c.Classification),
	}
}

// CleanSKU extracts the leading alphanumeric run and uppercases it.
// Scanners append separators and checksum suffixes; only the run counts.
func CleanSKU(raw string) string {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) {
		ch := raw[end]
		if (ch >= '0' && ch <= '9') || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') {
			end++
			continue
		}
		break
	}
	return strings.ToUpper(raw[:end])
}

// PadCode strips non-digits and left-pads to two characters.
// Empty input stays empty; codes longer than two digits are kept as-is.
func PadCode(v string) string {
	var b strings.Builder
	for i := 0; i < len(v); i++ {
		if v[i] >= '0' && v[i] <= '9' {
			b.WriteByte(v[i])
		}
	}
	digits := b.String()
	if digits == "" {
		return ""
	}
	if len(digits) == 1 {
		return "0" + digits
	}
	return digits
}

// MeetsTargets reports whether snapshot codes satisfy the campaign's target
// codes. An empty target matches anything.
func MeetsTargets(snapshot CodeSet, targets CodeSet) bool {
	if t := PadCode(targets.Category); t != "" && PadCode(snapshot.Category) != t {
		return false
	}
	if t := PadCode(targets.Type); t != "" && PadCode(snapshot.Type) != t {
		return false
	}
	if t := PadCode(targets.Classification); t != "" && PadCode(snapshot.Classification) != t {
		return false
	}
	return true
}
