package music

// Rand is the randomness source of the selector. *math/rand/v2.Rand
// satisfies it.
type Rand interface {
	IntN(n int) int
}

// ChooseNextPart picks the successor of part for the given intensity.
// While calm, an empty calm list falls back to the intense list; fallback
// reports when that happened. An empty result means the part is a dead end.
func ChooseNextPart(part *Part, intense bool, rng Rand) (next PartID, fallback bool) {
	if part == nil {
		return "", false
	}

	candidates := part.NextIntense
	if !intense {
		if len(part.NextCalm) > 0 {
			candidates = part.NextCalm
		} else {
			fallback = true
		}
	}

	if len(candidates) == 0 {
		return "", fallback
	}
	if len(candidates) == 1 || rng == nil {
		return candidates[0], fallback
	}
	return candidates[rng.IntN(len(candidates))], fallback
}
