package safenet

import (
	"strconv"
	"strings"
)

// Marking assigns 0 or 1 token to every place, indexed like Net.PlaceIDs.
type Marking []int

// Equal reports whether both markings have the same length and bits.
func (m Marking) Equal(o Marking) bool {
	if len(m) != len(o) {
		return false
	}
	for i := range m {
		if m[i] != o[i] {
			return false
		}
	}
	return true
}

func (m Marking) Clone() Marking {
	c := make(Marking, len(m))
	copy(c, m)
	return c
}

// Key is a compact string form of the marking, usable as a map key.
func (m Marking) Key() string {
	b := make([]byte, len(m))
	for i, v := range m {
		b[i] = '0' + byte(v)
	}
	return string(b)
}

// Tokens returns the indices of the marked places.
func (m Marking) Tokens() []int {
	var ret []int
	for i, v := range m {
		if v == 1 {
			ret = append(ret, i)
		}
	}
	return ret
}

func (m Marking) String() string {
	parts := make([]string, len(m))
	for i, v := range m {
		parts[i] = strconv.Itoa(v)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
