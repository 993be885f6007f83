package question

// Question is the canonical shape every source normalizes into. An empty
// Options slice marks a non-MCQ prompt (free-form answer, not graded).
type Question struct {
	ID           string   `json:"id"`
	Text         string   `json:"text"`
	Options      []string `json:"options,omitempty"`
	CorrectLabel string   `json:"correct_label,omitempty"` // single letter a-f, lower case
	Explanation  string   `json:"explanation,omitempty"`
}

func (q Question) IsMCQ() bool { return len(q.Options) > 0 }

// CorrectIndex maps CorrectLabel onto Options. Returns -1 when the label is
// missing or does not index into the option list.
func (q Question) CorrectIndex() int {
	i := LetterIndex(q.CorrectLabel)
	if i < 0 || i >= len(q.Options) {
		return -1
	}
	return i
}

// LetterIndex converts an option letter ("a".."f", either case) to 0..5.
// Anything else returns -1.
func LetterIndex(label string) int {
	if len(label) != 1 {
		return -1
	}
	c := label[0]
	switch {
	case c >= 'a' && c <= 'f':
		return int(c - 'a')
	case c >= 'A' && c <= 'F':
		return int(c - 'A')
	default:
		return -1
	}
}

// IndexLetter converts 0..5 to "a".."f". Out-of-range indexes return "".
func IndexLetter(i int) string {
	if i < 0 || i > 5 {
		return ""
	}
	return string(rune('a' + i))
}
