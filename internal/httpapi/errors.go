package httpapi

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	"go.uber.org/zap"
)

func statusFor(err error) int {
	switch {
	case apperrors.IsValidation(err):
		return http.StatusBadRequest
	case apperrors.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, apperrors.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, apperrors.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden
	case apperrors.IsStore(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeError maps err onto a status code and a {"error": ...} body.
// Store and unexpected failures are logged and reported without detail.
func (s *Server) writeError(c *gin.Context, err error) {
	status := statusFor(err)
	msg := err.Error()
	switch status {
	case http.StatusBadGateway:
		s.log.Error("data store failure", zap.String("route", c.FullPath()), zap.Error(err))
		msg = "the data store is unavailable, try again later"
	case http.StatusInternalServerError:
		s.log.Error("unhandled error", zap.String("route", c.FullPath()), zap.Error(err))
		msg = "internal error"
	}
	c.JSON(status, gin.H{"error": msg})
}

func (s *Server) abort(c *gin.Context, err error) {
	s.writeError(c, err)
	c.Abort()
}
