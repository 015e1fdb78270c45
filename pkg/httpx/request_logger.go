package httpx

import (
	"time"

	"github.com/Gunvolt24/merchant_dash/internal/ports"
	"github.com/Gunvolt24/merchant_dash/pkg/ctxmeta"
	"github.com/gin-gonic/gin"
)

// RequestLogger — строка лога на каждый запрос; уровень по статусу ответа.
// Маршруты из quiet не логируются (служебные и частые опросы UI).
func RequestLogger(log ports.Logger, quiet ...string) gin.HandlerFunc {
	skip := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		skip[p] = struct{}{}
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if _, ok := skip[path]; ok {
			return
		}
		if path == "" {
			path = c.Request.URL.Path
		}

		ctx := c.Request.Context()
		rid, _ := ctxmeta.RequestIDFromContext(ctx)
		status := c.Writer.Status()

		logf := log.Infof
		switch {
		case status >= 500:
			logf = log.Errorf
		case status >= 400:
			logf = log.Warnf
		}
		logf(ctx, "request id=%s method=%s path=%s status=%d duration=%s size=%d",
			rid, c.Request.Method, path, status, time.Since(start), c.Writer.Size())
	}
}
