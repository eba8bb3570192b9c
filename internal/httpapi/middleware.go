package httpapi

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	"github.com/jrose1022/SubTrack/internal/session"
)

// authenticate verifies the bearer token and stores the Identity in the
// request context.
func (s *Server) authenticate(c *gin.Context) {
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		s.abort(c, fmt.Errorf("%w: missing bearer token", apperrors.ErrUnauthorized))
		return
	}
	id, err := s.verifier.Verify(raw)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Request = c.Request.WithContext(session.WithIdentity(c.Request.Context(), id))
	c.Next()
}

// loadSession resolves the caller's profile into a Session.
func (s *Server) loadSession(c *gin.Context) {
	id, ok := session.IdentityFromContext(c.Request.Context())
	if !ok {
		s.abort(c, apperrors.ErrUnauthorized)
		return
	}
	sess, err := s.resolver.Resolve(c.Request.Context(), id)
	if err != nil {
		s.abort(c, err)
		return
	}
	c.Request = c.Request.WithContext(session.WithSession(c.Request.Context(), sess))
	c.Next()
}

func requireAdmin(c *gin.Context) {
	sess, _ := session.FromContext(c.Request.Context())
	if !sess.IsAdmin {
		c.AbortWithStatusJSON(statusFor(apperrors.ErrForbidden), gin.H{"error": "administrator access required"})
		return
	}
	c.Next()
}

func bearerToken(header string) (string, bool) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func currentSession(c *gin.Context) session.Session {
	sess, _ := session.FromContext(c.Request.Context())
	return sess
}
