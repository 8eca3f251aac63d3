package server

import (
	"net/http"

	"github.com/jmoreira/pulse/internal/session"
)

// handleWS establishes a session: upgrade, bind, block until the connection
// ends, then unbind by session ID. If the user reconnected in the meantime
// the unbind is stale and the registry ignores it.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		http.Error(w, "user_id is required", http.StatusBadRequest)
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		s.logger.Debug("websocket upgrade failed", "error", err)
		return
	}

	sess := session.New(conn, userID, s.sessions, s.logger)
	s.registry.Bind(userID, sess)

	<-sess.Done()
	s.registry.Unbind(sess.ID())
}
