package models

// Slot identifies one of the two voiced variants within a pair.
type Slot string

const (
	SlotA Slot = "A"
	SlotB Slot = "B"
)

// Valid reports whether the slot is one of the two known labels.
func (s Slot) Valid() bool {
	return s == SlotA || s == SlotB
}

// Other returns the opposite slot.
func (s Slot) Other() Slot {
	if s == SlotA {
		return SlotB
	}
	return SlotA
}

// Word is one variant of a minimal pair: the display form shown after the
// answer and the canonical spoken form sent to the synthesizer.
type Word struct {
	Display string `json:"display"`
	Spoken  string `json:"spoken"`
}

// Pair is a single catalog row. ID matches the row's position in the catalog
// and is stable for the lifetime of the catalog file.
type Pair struct {
	ID       int    `json:"id"`
	Category string `json:"category"`
	WordA    Word   `json:"word_a"`
	WordB    Word   `json:"word_b"`
}

// WordFor returns the word occupying the given slot.
func (p Pair) WordFor(s Slot) Word {
	if s == SlotA {
		return p.WordA
	}
	return p.WordB
}
