package http

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/vladislavdragonenkov/bakery/internal/session"
)

type contextKey string

const sessionContextKey contextKey = "storefront_session"

// sessionMiddleware привязывает запрос к сессии: идентификатор берется
// из заголовка, новая сессия получает свежий uuid. Идентификатор всегда
// возвращается в заголовке ответа.
func (s *Server) sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, created := s.sessions.GetOrCreate(r.Context(), r.Header.Get(SessionHeader))
		if created {
			s.logger.WithField("session_id", sess.ID).Debug("new visitor session")
		}

		w.Header().Set(SessionHeader, sess.ID)
		ctx := context.WithValue(r.Context(), sessionContextKey, sess)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func sessionFrom(r *http.Request) *session.Session {
	sess, _ := r.Context().Value(sessionContextKey).(*session.Session)
	return sess
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(recorder, r)

		s.logger.WithFields(log.Fields{
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      recorder.status,
			"duration_ms": time.Since(start).Milliseconds(),
		}).Info("request handled")
	})
}
