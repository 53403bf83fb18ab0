package constant

const (
	// Event bus kinds and topic for answer lifecycle notifications.
	AnswerEventTopic  = "ANSWER_LIFECYCLE"
	EventKindAnswer   = "ANSWER_RECEIVED"
	EventKindTaskFail = "TASK_FAILED"

	// Localized user-facing fallbacks. Transport and parse failures are
	// never surfaced verbatim; the backend's own failure text is.
	MsgQueryFailed    = "查询失败，请稍后重试"
	MsgTaskFailed     = "任务执行失败，请重新提问"
	MsgEmptyAnswer    = "（未获取到内容）"
	MsgUnknownSource  = "未知来源"
	MsgNoReliableHint = "无可靠来源"
)

// Generic titles used when an answer has no headings of its own.
var ImplicitSectionTitles = map[string]string{
	"doc":      "文档解读",
	"general":  "综合回答",
	"chitchat": "对话",
	"guidance": "使用指引",
}
