package middlewares

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

// Recover catches panics at the boundary and renders the generic envelope.
// The recovered detail only reaches the client when the debug flag is on.
func Recover(log *slog.Logger, debug bool) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		reqID, _ := c.Get(CtxRequestID)

		log.Error("panic recovered", "panic", fmt.Sprint(recovered), "request_id", reqID)

		description := "Internal server error"

		if debug {
			description = fmt.Sprint(recovered)
		}

		abortEnvelope(c, http.StatusInternalServerError, "internal_server_error", description)
	})
}
