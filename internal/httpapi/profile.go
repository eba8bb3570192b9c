package httpapi

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jrose1022/SubTrack/internal/apperrors"
	"github.com/jrose1022/SubTrack/internal/models"
	"github.com/jrose1022/SubTrack/internal/session"
	"github.com/jrose1022/SubTrack/internal/users"
)

type profileRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
}

func (p profileRequest) input() users.ProfileInput {
	return users.ProfileInput{Name: p.Name, Address: p.Address, Phone: p.Phone}
}

func (s *Server) register(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.Validation("body", "invalid request body"))
		return
	}
	id, _ := session.IdentityFromContext(c.Request.Context())

	u, err := s.users.Register(c.Request.Context(), id, req.input())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (s *Server) getProfile(c *gin.Context) {
	u, err := s.users.Profile(c.Request.Context(), currentSession(c).AuthID)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) updateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.Validation("body", "invalid request body"))
		return
	}
	u, err := s.users.UpdateProfile(c.Request.Context(), currentSession(c).AuthID, req.input())
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) listUsers(c *gin.Context) {
	list, err := s.users.List(c.Request.Context())
	if err != nil {
		s.writeError(c, err)
		return
	}
	if list == nil {
		list = []models.User{}
	}
	c.JSON(http.StatusOK, list)
}

func (s *Server) setRole(c *gin.Context) {
	var req struct {
		IsAdmin *bool `json:"is_admin" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.Validation("is_admin", "is required"))
		return
	}
	u, err := s.users.SetAdmin(c.Request.Context(), currentSession(c), c.Param("id"), *req.IsAdmin)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (s *Server) setStatus(c *gin.Context) {
	var req struct {
		Status models.UserStatus `json:"status"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, apperrors.Validation("body", "invalid request body"))
		return
	}
	u, err := s.users.SetStatus(c.Request.Context(), currentSession(c), c.Param("id"), req.Status)
	if err != nil {
		s.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}
