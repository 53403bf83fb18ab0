package dto

// AskRequest is the submission payload for POST /api/ask.
type AskRequest struct {
	Query        string   `json:"query" validate:"required,min=1"`
	SessionId    string   `json:"session_id,omitempty"`
	TopK         int      `json:"top_k,omitempty" validate:"omitempty,gte=1,lte=50"`
	UseRerank    *bool    `json:"use_rerank,omitempty"`
	DocOnly      *bool    `json:"doc_only,omitempty"`
	AllowWeb     *bool    `json:"allow_web,omitempty"`
	WebMode      string   `json:"web_mode,omitempty" validate:"omitempty,oneof=auto always never"`
	Feedback     string   `json:"feedback,omitempty"`
	FeedbackTags []string `json:"feedback_tags,omitempty"`
}

type CitationPayload struct {
	Source  string   `json:"source"`
	Type    string   `json:"type,omitempty"`
	Page    *int     `json:"page,omitempty"`
	Snippet string   `json:"snippet,omitempty"`
	Score   *float64 `json:"score,omitempty"`
	Title   string   `json:"title,omitempty"`
	Url     string   `json:"url,omitempty"`
}

// AnswerPayload is the dynamically-shaped answer body the backend
// returns, either inline or as a task result.
type AnswerPayload struct {
	Answer      string                 `json:"answer"`
	Mode        string                 `json:"mode"`
	Citations   []CitationPayload      `json:"citations,omitempty"`
	Suggestions []string               `json:"suggestions,omitempty"`
	SessionId   string                 `json:"session_id,omitempty"`
	MultiTopics []string               `json:"multi_topics,omitempty"`
	Meta        map[string]interface{} `json:"meta,omitempty"`
	Diagnostics map[string]interface{} `json:"diagnostics,omitempty"`
}

// AskResponse either carries an inline result (task_id null) or defers
// to a background task.
type AskResponse struct {
	TaskId    *string        `json:"task_id"`
	SessionId string         `json:"session_id"`
	Result    *AnswerPayload `json:"result,omitempty"`
}

// TaskResultResponse is the polling payload for GET /api/result/{id}.
type TaskResultResponse struct {
	Status string         `json:"status"`
	Result *AnswerPayload `json:"result,omitempty"`
	Error  *string        `json:"error,omitempty"`
}

type IndexStatusResponse struct {
	Documents int    `json:"documents"`
	Chunks    int    `json:"chunks"`
	UpdatedAt string `json:"updated_at"`
}

type UploadSummaryPayload struct {
	Filename string `json:"filename"`
	Chunks   int    `json:"chunks"`
}

type UploadResponse struct {
	Processed []UploadSummaryPayload `json:"processed"`
}

type ClearIndexResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// AnswerEventMessage is published on the in-process bus whenever the
// query lifecycle reaches a terminal state.
type AnswerEventMessage struct {
	Kind      string `json:"kind"` // ANSWER_RECEIVED | TASK_FAILED
	SessionId string `json:"session_id"`
	TaskId    string `json:"task_id,omitempty"`
	Mode      string `json:"mode,omitempty"`
	Error     string `json:"error,omitempty"`
}
