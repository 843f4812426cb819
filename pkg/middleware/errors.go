package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/skillshare-dao/skillshare-dao/pkg/apperror"
	"github.com/skillshare-dao/skillshare-dao/pkg/logger"
)

// ErrorHandler renders the last error pushed with c.Error as {error, message}
// using the status code of its kind. Handlers that already wrote a response
// are left alone.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		err := c.Errors.Last().Err
		status := apperror.ToHTTPStatus(err)
		if status >= http.StatusInternalServerError {
			logger.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
		}
		c.JSON(status, apperror.ToJSON(err))
	}
}
