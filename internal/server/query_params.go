package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// pathID reads a positive integer path parameter.
func pathID(c *gin.Context, name string) (int64, error) {
	trimmed := strings.TrimSpace(c.Param(name))
	parsed, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil || parsed <= 0 {
		return 0, newValidationError(name, "invalid_"+name, "invalid "+name)
	}
	return parsed, nil
}
