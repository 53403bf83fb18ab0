package service

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"rag-console/internal/constant"
	"rag-console/internal/dto"
	"rag-console/internal/entity"
	"rag-console/internal/mapper"
	"rag-console/internal/pkg/logger"
	"rag-console/internal/repository/memory"
	"rag-console/pkg/backend"

	"github.com/go-playground/validator/v10"
)

// IQueryService drives the query lifecycle: submission, the sync /
// deferred branch, polling with backoff and cooperative cancellation.
type IQueryService interface {
	Submit(ctx context.Context, text string, opts entity.QueryOptions)
	SubmitFeedback(ctx context.Context, feedback string, tags []string)
	Reset()
	SetVisible(visible bool)
	Snapshot() QuerySnapshot
}

// QuerySnapshot is the observable lifecycle state. Derived structures
// (sections, matches) are recomputed from Answer by the renderer.
type QuerySnapshot struct {
	Loading   bool
	Answer    *entity.Answer
	ErrorText string
	Task      *entity.Task
	SessionId string
}

type queryService struct {
	backend   backend.IClient
	sessions  *memory.SessionRepository
	mapper    *mapper.AnswerMapper
	publisher IPublisherService
	logger    logger.ILogger
	validate  *validator.Validate
	baseWait  time.Duration
	afterFunc func(d time.Duration, f func()) *time.Timer

	mu          sync.Mutex
	generation  uint64
	loading     bool
	visible     bool
	answer      *entity.Answer
	errorText   string
	task        *entity.Task
	attempts    int
	pendingPoll bool
	pollTimer   *time.Timer
	sessionId   string
	lastQuery   entity.Query
}

func NewQueryService(
	backendClient backend.IClient,
	sessions *memory.SessionRepository,
	publisher IPublisherService,
	sysLogger logger.ILogger,
	pollBaseWait time.Duration,
) IQueryService {
	return &queryService{
		backend:   backendClient,
		sessions:  sessions,
		mapper:    mapper.NewAnswerMapper(),
		publisher: publisher,
		logger:    sysLogger,
		validate:  validator.New(),
		baseWait:  pollBaseWait,
		afterFunc: time.AfterFunc,
		visible:   true,
	}
}

// Submit dispatches one query. It is a no-op while a previous request
// is still in flight, so double submissions never reach the network.
// Any prior task is invalidated unconditionally: its generation no
// longer matches, and late poll responses for it are discarded.
func (s *queryService) Submit(ctx context.Context, text string, opts entity.QueryOptions) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}

	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return
	}
	s.generation++
	gen := s.generation
	s.clearTaskLocked()
	s.loading = true
	s.errorText = ""

	session := s.sessions.Ensure(opts.SessionId)
	session.Queries++
	session.LastQuery = text
	s.sessions.Save(session)
	s.sessionId = session.ID
	opts.SessionId = session.ID
	s.lastQuery = entity.Query{Text: text, Options: opts}
	s.mu.Unlock()

	req := buildAskRequest(text, opts)
	if err := s.validate.Struct(req); err != nil {
		s.logger.Warn("QueryService", "invalid ask request", map[string]interface{}{"error": err.Error()})
		s.fail(gen, constant.MsgQueryFailed)
		return
	}

	go s.dispatch(ctx, gen, req)
}

// SubmitFeedback resubmits the last query with the session's
// aggregated feedback attached as extra options.
func (s *queryService) SubmitFeedback(ctx context.Context, feedback string, tags []string) {
	s.mu.Lock()
	last := s.lastQuery
	sessionId := s.sessionId
	s.mu.Unlock()

	if last.Text == "" {
		return
	}

	aggregated := s.sessions.AppendFeedback(sessionId, composeFeedback(feedback, tags))
	opts := last.Options
	opts.Feedback = aggregated
	opts.FeedbackTags = tags
	s.Submit(ctx, last.Text, opts)
}

// Reset abandons any in-flight request or pending task and destroys
// the session. The generation bump makes every late response for the
// superseded work a discard on arrival.
func (s *queryService) Reset() {
	s.mu.Lock()
	s.generation++
	s.clearTaskLocked()
	s.loading = false
	s.answer = nil
	s.errorText = ""
	s.lastQuery = entity.Query{}
	sessionId := s.sessionId
	s.sessionId = ""
	s.mu.Unlock()

	if sessionId != "" {
		s.sessions.Delete(sessionId)
	}
}

// SetVisible gates polling on surface visibility. Hiding suspends the
// timer; returning triggers an immediate poll when a task is pending.
func (s *queryService) SetVisible(visible bool) {
	s.mu.Lock()
	s.visible = visible

	if !visible {
		if s.pollTimer != nil {
			s.pollTimer.Stop()
			s.pollTimer = nil
			s.pendingPoll = true
		}
		s.mu.Unlock()
		return
	}

	if s.pendingPoll && s.task != nil {
		s.pendingPoll = false
		gen := s.generation
		s.mu.Unlock()
		go s.poll(context.Background(), gen)
		return
	}
	s.mu.Unlock()
}

func (s *queryService) Snapshot() QuerySnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := QuerySnapshot{
		Loading:   s.loading,
		Answer:    s.answer,
		ErrorText: s.errorText,
		SessionId: s.sessionId,
	}
	if s.task != nil {
		taskCopy := *s.task
		snapshot.Task = &taskCopy
	}
	return snapshot
}

// --- lifecycle internals ---

func (s *queryService) dispatch(ctx context.Context, gen uint64, req *dto.AskRequest) {
	resp, err := s.backend.Ask(ctx, req)
	if err != nil {
		s.logger.Error("QueryService", "ask request failed", map[string]interface{}{"error": err.Error()})
		s.fail(gen, constant.MsgQueryFailed)
		return
	}

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	if resp.SessionId != "" {
		s.sessionId = resp.SessionId
	}

	// Inline result alongside (or instead of) a task indicator is an
	// immediate success.
	if resp.Result != nil {
		answer := s.mapper.AnswerToEntity(resp.Result)
		s.answer = answer
		s.loading = false
		s.mu.Unlock()
		s.publishEvent(ctx, constant.EventKindAnswer, string(answer.Mode), "", "")
		return
	}

	if resp.TaskId != nil && *resp.TaskId != "" {
		s.task = &entity.Task{Id: *resp.TaskId, Status: entity.TaskStatusPending}
		s.attempts = 0
		s.scheduleLocked(gen, s.baseWait)
		s.mu.Unlock()
		return
	}

	s.mu.Unlock()
	s.logger.Warn("QueryService", "ask response carried neither result nor task", nil)
	s.fail(gen, constant.MsgQueryFailed)
}

func (s *queryService) poll(ctx context.Context, gen uint64) {
	s.mu.Lock()
	if gen != s.generation || s.task == nil {
		s.mu.Unlock()
		return
	}
	taskId := s.task.Id
	s.mu.Unlock()

	resp, err := s.backend.FetchResult(ctx, taskId)

	s.mu.Lock()
	if gen != s.generation || s.task == nil {
		// Superseded while the response was in flight; discard.
		s.mu.Unlock()
		return
	}

	if err != nil {
		s.logger.Error("QueryService", "poll request failed", map[string]interface{}{
			"task_id": taskId,
			"error":   err.Error(),
		})
		s.loading = false
		s.errorText = constant.MsgQueryFailed
		s.attempts = 0
		s.task = nil
		s.mu.Unlock()
		s.publishEvent(ctx, constant.EventKindTaskFail, "", taskId, constant.MsgQueryFailed)
		return
	}

	status := entity.TaskStatus(resp.Status)
	if !status.Terminal() {
		s.task.Status = status
		s.attempts++
		s.scheduleLocked(gen, nextDelay(s.baseWait, s.attempts))
		s.mu.Unlock()
		return
	}

	s.task.Status = status
	s.attempts = 0
	s.loading = false

	if status == entity.TaskStatusSuccess && resp.Result != nil {
		answer := s.mapper.AnswerToEntity(resp.Result)
		s.answer = answer
		if answer.SessionId != "" {
			s.sessionId = answer.SessionId
		}
		s.mu.Unlock()
		s.publishEvent(ctx, constant.EventKindAnswer, string(answer.Mode), taskId, "")
		return
	}

	errText := constant.MsgTaskFailed
	if status == entity.TaskStatusFailure && resp.Error != nil && *resp.Error != "" {
		errText = *resp.Error
	}
	s.task.Error = errText
	s.errorText = errText
	s.mu.Unlock()
	s.publishEvent(ctx, constant.EventKindTaskFail, "", taskId, errText)
}

// scheduleLocked arms the next poll. Callers hold the mutex. While the
// surface is hidden the poll is parked instead of armed; SetVisible
// fires it immediately on return.
func (s *queryService) scheduleLocked(gen uint64, delay time.Duration) {
	if !s.visible {
		s.pendingPoll = true
		return
	}
	s.pollTimer = s.afterFunc(delay, func() {
		s.poll(context.Background(), gen)
	})
}

func (s *queryService) clearTaskLocked() {
	s.task = nil
	s.attempts = 0
	s.pendingPoll = false
	if s.pollTimer != nil {
		s.pollTimer.Stop()
		s.pollTimer = nil
	}
}

func (s *queryService) fail(gen uint64, message string) {
	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		return
	}
	s.loading = false
	s.errorText = message
	s.mu.Unlock()
}

func (s *queryService) publishEvent(ctx context.Context, kind, mode, taskId, errText string) {
	if s.publisher == nil {
		return
	}
	s.mu.Lock()
	sessionId := s.sessionId
	s.mu.Unlock()

	payload, err := json.Marshal(dto.AnswerEventMessage{
		Kind:      kind,
		SessionId: sessionId,
		TaskId:    taskId,
		Mode:      mode,
		Error:     errText,
	})
	if err != nil {
		return
	}
	if err := s.publisher.Publish(ctx, payload); err != nil {
		s.logger.Warn("QueryService", "failed to publish lifecycle event", map[string]interface{}{
			"kind":  kind,
			"error": err.Error(),
		})
	}
}

// nextDelay doubles the base wait per consecutive non-terminal poll,
// capped at five times the base.
func nextDelay(base time.Duration, attempts int) time.Duration {
	if attempts > 8 {
		attempts = 8
	}
	delay := base << uint(attempts)
	if max := 5 * base; delay > max {
		delay = max
	}
	return delay
}

func buildAskRequest(text string, opts entity.QueryOptions) *dto.AskRequest {
	req := &dto.AskRequest{
		Query:        text,
		SessionId:    opts.SessionId,
		TopK:         opts.TopK,
		UseRerank:    boolPtr(opts.UseRerank),
		DocOnly:      boolPtr(opts.DocOnly),
		AllowWeb:     boolPtr(opts.AllowWeb),
		WebMode:      opts.WebMode,
		Feedback:     opts.Feedback,
		FeedbackTags: opts.FeedbackTags,
	}
	return req
}

func boolPtr(v bool) *bool {
	return &v
}

func composeFeedback(feedback string, tags []string) string {
	parts := []string{}
	if trimmed := strings.TrimSpace(feedback); trimmed != "" {
		parts = append(parts, trimmed)
	}
	if len(tags) > 0 {
		parts = append(parts, strings.Join(tags, "、"))
	}
	return strings.Join(parts, "；")
}
