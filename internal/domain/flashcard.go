package domain

// Flashcard is a two-sided review card generated for a study day.
type Flashcard struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Validate checks that both sides of the card are present.
func (f Flashcard) Validate() error {
	if f.Front == "" || f.Back == "" {
		return ErrInvalidFlashcard
	}
	return nil
}
