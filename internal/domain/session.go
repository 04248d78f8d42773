package domain

// EditSession tracks one image through successive edit rounds. Edits are
// strictly ordered: each round consumes the previous round's output, never
// a stale copy. The session ends when a Finalizer consumes it or the user
// discards it.
type EditSession struct {
	ID           string
	Category     AssetCategory
	Subtype      string
	Working      ImagePayload
	Instructions []string
}

// Advance replaces the working image with the output of an edit round and
// records the instruction that produced it.
func (s *EditSession) Advance(img ImagePayload, instruction string) {
	s.Working = img
	s.Instructions = append(s.Instructions, instruction)
}
