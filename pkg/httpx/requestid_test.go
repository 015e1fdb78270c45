package httpx_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gunvolt24/merchant_dash/pkg/ctxmeta"
	"github.com/Gunvolt24/merchant_dash/pkg/httpx"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestIDMiddleware(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name     string
		header   string
		wantKeep bool
	}{
		{"missing", "", false},
		{"provided", "ui-7f3a", true},
		{"too_long", strings.Repeat("a", 65), false},
		{"with_space", "a b", false},
		{"non_ascii", "заказ-1", false},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var ctxID string
			r := gin.New()
			r.Use(httpx.RequestIDMiddleware())
			r.GET("/", func(c *gin.Context) {
				ctxID, _ = ctxmeta.RequestIDFromContext(c.Request.Context())
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest(http.MethodGet, "/", http.NoBody)
			if tt.header != "" {
				req.Header.Set(httpx.HeaderRequestID, tt.header)
			}
			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			rid := w.Header().Get(httpx.HeaderRequestID)
			assert.Equal(t, rid, ctxID)
			if tt.wantKeep {
				assert.Equal(t, tt.header, rid)
				return
			}
			_, err := uuid.Parse(rid)
			require.NoError(t, err, "generated id must be a UUID, got %q", rid)
		})
	}
}
