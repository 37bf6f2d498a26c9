package reward

// CharRange is an inclusive rune range used as the productivity proxy
type CharRange struct {
	Lo rune
	Hi rune
}

// DefaultCharRange covers U+4E00 to U+9FA5, a narrow slice of the
// CJK Unified Ideographs block; widening it changes payouts
var DefaultCharRange = CharRange{Lo: 0x4E00, Hi: 0x9FA5}

// Count returns how many runes of s fall inside the range
func (c CharRange) Count(s string) int {
	n := 0
	for _, r := range s {
		if r >= c.Lo && r <= c.Hi {
			n++
		}
	}
	return n
}

// Valid reports whether the range is non empty
func (c CharRange) Valid() bool { return c.Lo <= c.Hi && c.Lo >= 0 }

// CountCJK counts runes of s inside DefaultCharRange
func CountCJK(s string) int { return DefaultCharRange.Count(s) }
