package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sangkips/billing-counter/internal/presentation/http/dto/response"
	"github.com/sangkips/billing-counter/internal/presentation/http/middleware"
	"github.com/sangkips/billing-counter/pkg/apperror"
)

// GetUsername extracts the signed-in operator from the Gin context
func GetUsername(c *gin.Context) string {
	return c.GetString(middleware.ContextUsername)
}

// intParam reads a numeric path parameter. On failure it writes a 400 and
// returns false.
func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid "+name))
		return 0, false
	}
	return n, true
}

func int64Param(c *gin.Context, name string) (int64, bool) {
	n, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil {
		response.Error(c, apperror.NewBadRequestError("Invalid "+name))
		return 0, false
	}
	return n, true
}
