package http

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"inventory/internal/log"
	"inventory/internal/workspace"
)

// SessionCookie names the cookie selecting the caller's workspace.
const SessionCookie = "inventory_session"

type sessionKey struct{}

type session struct {
	id        string
	workspace *workspace.Workspace
}

// withSession resolves the session cookie to a workspace, issuing a new
// session when the cookie is absent, malformed or expired.
func (s *Server) withSession(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if c, err := r.Cookie(SessionCookie); err == nil {
			if parsed, err := uuid.Parse(c.Value); err == nil {
				id = parsed.String()
			}
		}
		if id == "" {
			id = uuid.NewString()
		}

		ws, created := s.sessions.Acquire(id)
		if created {
			s.metrics.SetWorkspaces(s.sessions.Len())
			log.FromContext(r.Context()).DebugContext(r.Context(), "Session started", log.FieldSessionID, id)
		}

		http.SetCookie(w, &http.Cookie{
			Name:     SessionCookie,
			Value:    id,
			Path:     "/",
			MaxAge:   int(s.sessionTTL.Seconds()),
			HttpOnly: true,
			Secure:   r.TLS != nil,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := context.WithValue(r.Context(), sessionKey{}, session{id: id, workspace: ws})
		next(w, r.WithContext(ctx))
	}
}

// workspaceFrom returns the workspace bound to the request by withSession.
func workspaceFrom(ctx context.Context) (*workspace.Workspace, bool) {
	sess, ok := ctx.Value(sessionKey{}).(session)
	return sess.workspace, ok && sess.workspace != nil
}
