package memory

import (
	"strings"
	"time"

	"rag-console/pkg/store"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache
}

func NewSessionRepository() *SessionRepository {
	// Create a cache with a default expiration time of 1 hour, and which
	// purges expired items every 10 minutes
	c := cache.New(1*time.Hour, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

// Ensure returns the session for the given id, creating one (with a
// fresh uuid when the id is empty) if it does not exist.
func (r *SessionRepository) Ensure(sessionID string) *store.Session {
	if sessionID != "" {
		if x, found := r.cache.Get(sessionID); found {
			return x.(*store.Session)
		}
	}
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	session := &store.Session{
		ID:        sessionID,
		CreatedAt: time.Now(),
	}
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
	return session
}

func (r *SessionRepository) Save(session *store.Session) {
	r.cache.Set(session.ID, session, cache.DefaultExpiration)
}

func (r *SessionRepository) Get(sessionID string) (*store.Session, bool) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(*store.Session), true
	}
	return nil, false
}

func (r *SessionRepository) Delete(sessionID string) {
	r.cache.Delete(sessionID)
}

// AppendFeedback records one feedback line against the session and
// returns the aggregated block to carry on the next submission.
func (r *SessionRepository) AppendFeedback(sessionID, feedback string) string {
	session := r.Ensure(sessionID)
	feedback = strings.TrimSpace(feedback)
	if feedback != "" {
		session.Feedback = append(session.Feedback, feedback)
	}
	r.Save(session)
	return strings.Join(session.Feedback, "；")
}

// AggregatedFeedback joins the session's feedback trail, empty when
// none was given.
func (r *SessionRepository) AggregatedFeedback(sessionID string) string {
	session, found := r.Get(sessionID)
	if !found {
		return ""
	}
	return strings.Join(session.Feedback, "；")
}
