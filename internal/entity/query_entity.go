package entity

// QueryOptions carries the retrieval knobs and feedback state attached
// to one submission. A new submission replaces the previous query
// wholesale.
type QueryOptions struct {
	DocOnly      bool
	AllowWeb     bool
	WebMode      string
	UseRerank    bool
	TopK         int
	Feedback     string
	FeedbackTags []string
	SessionId    string
}

type Query struct {
	Text    string
	Options QueryOptions
}
