package server

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/facturier/internal/backup"
)

const maxBackupSize = 64 << 20

func (s *Server) ExportBackup(c *gin.Context) {
	bundle, err := s.backupSvc.Export(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	body, err := backup.Encode(bundle)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", s.backupSvc.FileNameNow()))
	c.Data(http.StatusOK, "application/json", body)
}

// ImportBackup accepts the backup either as the raw request body or as a
// multipart upload in the "file" field.
func (s *Server) ImportBackup(c *gin.Context) {
	payload, err := readBackupPayload(c)
	if err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	res, err := s.backupSvc.Import(c.Request.Context(), payload)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": res})
}

func (s *Server) ExportWorkbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := s.backupSvc.Workbook(c.Request.Context(), &buf); err != nil {
		AbortWithError(c, err)
		return
	}

	name := strings.TrimSuffix(s.backupSvc.FileNameNow(), ".json") + ".xlsx"
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func readBackupPayload(c *gin.Context) ([]byte, error) {
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		header, err := c.FormFile("file")
		if err != nil {
			return nil, err
		}
		f, err := header.Open()
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return io.ReadAll(io.LimitReader(f, maxBackupSize))
	}
	return io.ReadAll(io.LimitReader(c.Request.Body, maxBackupSize))
}
