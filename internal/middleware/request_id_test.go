package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	existing := uuid.NewString()

	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{name: "assigns a new id", incoming: ""},
		{name: "keeps a valid id", incoming: existing, keep: true},
		{name: "replaces a malformed id", incoming: "not-a-uuid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string

			r := gin.New()
			r.Use(RequestID())
			r.GET("/test", func(c *gin.Context) {
				seen = GetRequestID(c)
				c.Status(http.StatusNoContent)
			})

			req := httptest.NewRequest("GET", "/test", nil)
			if tt.incoming != "" {
				req.Header.Set(RequestIDHeader, tt.incoming)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			returned := w.Header().Get(RequestIDHeader)
			assert.Equal(t, seen, returned)

			_, err := uuid.Parse(returned)
			assert.NoError(t, err)

			if tt.keep {
				assert.Equal(t, tt.incoming, returned)
			} else {
				assert.NotEqual(t, tt.incoming, returned)
			}
		})
	}
}
