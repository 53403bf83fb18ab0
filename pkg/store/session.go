package store

import "time"

// Session is the client-side view of one QA conversation. The backend
// owns retrieval memory; the console tracks identity, the question
// count and the feedback trail it resubmits with follow-up queries.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	Queries   int       `json:"queries"`

	// Accumulated feedback lines, oldest first. Joined into a single
	// feedback block on resubmission.
	Feedback []string `json:"feedback"`

	// Metadata for last interaction
	LastQuery string `json:"last_query"`
}
