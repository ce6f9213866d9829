package api

import (
	"errors"
	"math/rand"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/calradia/rosterkit/pkg/codec"
	"github.com/calradia/rosterkit/pkg/facecode"
	"github.com/calradia/rosterkit/pkg/session"
)

// Server holds the API server state.
type Server struct {
	sessions *session.Store
	config   ServerConfig
	metrics  *Metrics
	log      zerolog.Logger

	// rng feeds character generation. It is only touched inside
	// sessions.Mutate, which serializes on the store mutex.
	rng *rand.Rand
}

// NewServer creates a new API server.
func NewServer(sessions *session.Store, config ServerConfig, metrics *Metrics, log zerolog.Logger) *Server {
	return &Server{
		sessions: sessions,
		config:   config,
		metrics:  metrics,
		log:      log,
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// statusFor maps core errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrNotFound),
		errors.Is(err, codec.ErrIndexRange),
		errors.Is(err, codec.ErrNameNotFound),
		errors.Is(err, session.ErrBackupRange):
		return http.StatusNotFound
	case errors.Is(err, codec.ErrNoSelector),
		errors.Is(err, codec.ErrLastRecord),
		errors.Is(err, session.ErrNoBackups):
		return http.StatusBadRequest
	case errors.Is(err, codec.ErrTooShort),
		errors.Is(err, codec.ErrImplausibleCount),
		errors.Is(err, facecode.ErrInvalidFormat):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) sendCoreError(w http.ResponseWriter, err error) {
	sendError(w, err.Error(), statusFor(err))
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sendSuccess(w, map[string]string{"status": "healthy"})
}

// handleStatus reports service statistics.
func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	active := s.sessions.Len()
	if s.metrics != nil {
		s.metrics.SetActiveSessions(active)
	}
	sendSuccess(w, map[string]interface{}{
		"status":          "running",
		"active_sessions": active,
	})
}

// handleCreateSession starts an empty editing session.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	id, err := s.sessions.Create(nil)
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	info, err := s.sessions.Info(id)
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	s.log.Info().Str("session", id).Msg("session created")
	sendSuccess(w, s.sessionInfo(info))
}

// handleGetSession returns session metadata.
func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	info, err := s.sessions.Info(sessionID(r))
	if err != nil {
		s.sendCoreError(w, err)
		return
	}
	sendSuccess(w, s.sessionInfo(info))
}

// handleDeleteSession evicts a session and its snapshots.
func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	id := sessionID(r)
	if err := s.sessions.Delete(id); err != nil {
		s.sendCoreError(w, err)
		return
	}
	s.log.Info().Str("session", id).Msg("session deleted")
	sendSuccess(w, map[string]string{"message": "Session deleted successfully"})
}

// sessionInfo fills the client view, including a parsed character count.
func (s *Server) sessionInfo(info session.Info) SessionInfo {
	out := SessionInfo{
		SessionID:    info.ID,
		CreatedAt:    info.CreatedAt,
		LastAccessed: info.LastAccessed,
		BackupCount:  info.BackupCount,
		HasBackups:   info.BackupCount > 0,
	}
	if data, err := s.sessions.Data(info.ID); err == nil {
		if ros, err := codec.Parse(data); err == nil {
			out.CharacterCount = len(ros.Records)
		}
	}
	return out
}
