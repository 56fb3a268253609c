package classify

import (
	"github.com/ardanlabs/ffi-wrapgen/errors"
)

// Pair binds every Size classification to the Buffers it measures, filling
// SizeParam and SizedBuffers in place. Sizes only measure buffers declared
// before them.
//
// A bare size (no _size prefix) binds the single unclaimed buffer before it.
// Several unclaimed candidates cannot be told apart by name, so Pair fails
// with a KindAmbiguousPairing error instead of guessing.
func Pair(cs []Classification) error {
	for i := range cs {
		if cs[i].Kind != KindSize {
			continue
		}

		prefix := SizePrefix(cs[i].Name())

		if prefix != "" {
			for j := 0; j < i; j++ {
				if cs[j].Kind != KindBuffer {
					continue
				}
				if MatchesPrefix(cs[j].Name(), prefix) {
					cs[i].SizedBuffers = append(cs[i].SizedBuffers, j)
					cs[j].SizeParam = i
				}
			}
			continue
		}

		var candidates []int
		for j := 0; j < i; j++ {
			if cs[j].Kind == KindBuffer && cs[j].SizeParam == NoParam {
				candidates = append(candidates, j)
			}
		}

		switch len(candidates) {
		case 0:
		case 1:
			j := candidates[0]
			cs[i].SizedBuffers = append(cs[i].SizedBuffers, j)
			cs[j].SizeParam = i
		default:
			names := make([]string, len(candidates))
			for k, j := range candidates {
				names[k] = cs[j].Name()
			}
			return errors.AmbiguousPairing(cs[i].Name(), names)
		}
	}

	return nil
}

// ConsumedCount returns the number of sizes bound to at least one buffer.
func ConsumedCount(cs []Classification) int {
	n := 0
	for _, c := range cs {
		if c.Consumed() {
			n++
		}
	}
	return n
}
