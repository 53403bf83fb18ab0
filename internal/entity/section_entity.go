package entity

// Section is one titled subdivision of an answer. Sections are
// recomputed from the raw answer text on every render.
type Section struct {
	AnchorId    string
	Title       string
	Body        string
	SourceLines []string // raw per-section source reference lines
	Citations   []int    // indexes into Answer.Citations
}
