package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/facturier/internal/document/domain"
)

func (s *Server) GetProfile(c *gin.Context) {
	party, found, err := s.profileSvc.Get(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if !found {
		AbortWithError(c, ErrNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": party})
}

// SaveProfile stores the company profile and makes it the draft's sender.
func (s *Server) SaveProfile(c *gin.Context) {
	var req domain.Party
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	ctx := c.Request.Context()
	party, err := s.profileSvc.Save(ctx, req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	if _, err := s.session.ApplyProfile(ctx, party); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": party})
}
