package domain

// Section is one contiguous part of an uploaded paper together with its
// generated summary.
type Section struct {
	Index   int    `json:"index"`
	Preview string `json:"preview"`
	Text    string `json:"-"`
	Summary string `json:"summary"`
}

// PaperAnalysis is the result of summarizing an uploaded paper section by
// section.
type PaperAnalysis struct {
	Filename    string    `json:"filename"`
	Sections    []Section `json:"sections"`
	FullSummary string    `json:"full_summary"`
}
