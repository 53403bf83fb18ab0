package entity

// AnswerMode is the closed set of answer modes the backend may return.
type AnswerMode string

const (
	AnswerModeDoc      AnswerMode = "doc"
	AnswerModeGeneral  AnswerMode = "general"
	AnswerModeChitchat AnswerMode = "chitchat"
	AnswerModeGuidance AnswerMode = "guidance"
)

// Citation is one attributable source backing part of an answer.
// Page is nil when the source carries no page information.
type Citation struct {
	Source  string
	Type    string
	Page    *int
	Snippet string
	Score   *float64
	Title   string
	URL     string
}

// Answer is the full composed response for one query. It is immutable
// once mapped from the wire payload; sections and citation matches are
// derived from it on every render, never stored back.
type Answer struct {
	Raw         string
	Mode        AnswerMode
	Citations   []Citation
	Suggestions []string
	SessionId   string
	MultiTopics []string
	Meta        map[string]interface{}
	Diagnostics map[string]interface{}
}
