package server

import (
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/facturier/internal/document/domain"
	"github.com/smallbiznis/facturier/internal/providers/pdf"
)

type changeTypeRequest struct {
	Type domain.DocumentType `json:"type"`
}

type itemDescriptionRequest struct {
	Description string `json:"description"`
}

func (s *Server) GetDraft(c *gin.Context) {
	view, err := s.session.Draft(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ReplaceDraft(c *gin.Context) {
	var doc domain.Document
	if err := c.ShouldBindJSON(&doc); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view, err := s.session.Replace(c.Request.Context(), doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) NewDraft(c *gin.Context) {
	view, err := s.session.New(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) SaveDraft(c *gin.Context) {
	doc, err := s.session.Save(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) ChangeDraftType(c *gin.Context) {
	var req changeTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view, err := s.session.ChangeType(c.Request.Context(), req.Type)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) RefreshDraftNumber(c *gin.Context) {
	view, err := s.session.RefreshNumber(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) AddDraftItem(c *gin.Context) {
	view, err := s.session.AddItem(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) RemoveDraftItem(c *gin.Context) {
	itemID, err := pathID(c, "itemID")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.session.RemoveItem(c.Request.Context(), itemID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) SetItemDescription(c *gin.Context) {
	itemID, err := pathID(c, "itemID")
	if err != nil {
		AbortWithError(c, err)
		return
	}
	var req itemDescriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	view, err := s.session.SetItemDescription(c.Request.Context(), itemID, req.Description)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) ApplyClientToDraft(c *gin.Context) {
	clientID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.session.ApplyClient(c.Request.Context(), clientID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) DraftPDF(c *gin.Context) {
	view, err := s.session.Draft(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.writePDF(c, view.Document)
}

func (s *Server) writePDF(c *gin.Context, doc domain.Document) {
	r, err := s.pdf.Render(c.Request.Context(), doc)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := io.ReadAll(r)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pdf.FileName(doc)))
	c.Data(http.StatusOK, "application/pdf", body)
}
