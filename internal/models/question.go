package models

// SequenceLength is the number of clips played per question: three of the
// majority slot and exactly one odd slot.
const SequenceLength = 4

// Question is a single odd-one-out round. It is created when a pair is
// selected and discarded as soon as the answer is recorded.
type Question struct {
	PairID          int                  `json:"pair_id"`
	Sequence        [SequenceLength]Slot `json:"sequence"`
	CorrectPosition int                  `json:"correct_position"` // 1-indexed
	Majority        Slot                 `json:"majority"`
	Odd             Slot                 `json:"odd"`
	WordA           Word                 `json:"word_a"`
	WordB           Word                 `json:"word_b"`
	Category        string               `json:"category"`
}
