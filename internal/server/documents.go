package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/facturier/internal/document/amount"
	"github.com/smallbiznis/facturier/internal/document/domain"
)

// documentView is a history entry with the figures the list shows.
type documentView struct {
	domain.Document
	Total   decimal.Decimal `json:"total"`
	Balance decimal.Decimal `json:"balance"`
}

// ListDocuments returns the history newest first.
func (s *Server) ListDocuments(c *gin.Context) {
	docs, err := s.history.All(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	resp := make([]documentView, 0, len(docs))
	for i := len(docs) - 1; i >= 0; i-- {
		resp = append(resp, documentView{
			Document: docs[i],
			Total:    amount.DocumentTotal(docs[i]),
			Balance:  amount.Balance(docs[i]),
		})
	}
	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DocumentPDF(c *gin.Context) {
	docID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.history.Get(c.Request.Context(), docID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	s.writePDF(c, doc)
}

func (s *Server) OpenDocument(c *gin.Context) {
	docID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	view, err := s.session.Open(c.Request.Context(), docID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": view})
}

func (s *Server) DeleteDocument(c *gin.Context) {
	docID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if err := s.session.Delete(c.Request.Context(), docID); err != nil {
		AbortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) ToggleDocumentStatus(c *gin.Context) {
	docID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	doc, err := s.session.ToggleStatus(c.Request.Context(), docID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": doc})
}

func (s *Server) ConvertDocument(c *gin.Context) {
	docID, err := pathID(c, "id")
	if err != nil {
		AbortWithError(c, err)
		return
	}

	invoice, err := s.session.Convert(c.Request.Context(), docID)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": invoice})
}

func (s *Server) Dashboard(c *gin.Context) {
	docs, err := s.history.All(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": amount.Summarize(docs)})
}
