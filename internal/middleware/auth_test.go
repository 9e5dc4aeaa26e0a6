package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, secret string, expiresIn time.Duration) string {
	claims := &Claims{
		UserID: "user-123",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)

	return tokenString
}

func TestAuth(t *testing.T) {
	gin.SetMode(gin.TestMode)

	jwtSecret := "test-secret"

	tests := []struct {
		name           string
		secret         string
		setupAuth      func(t *testing.T) string
		expectedStatus int
		expectUserID   string
	}{
		{
			name:   "Valid JWT token",
			secret: jwtSecret,
			setupAuth: func(t *testing.T) string {
				return "Bearer " + signedToken(t, jwtSecret, time.Hour)
			},
			expectedStatus: http.StatusOK,
			expectUserID:   "user-123",
		},
		{
			name:           "Missing Authorization header",
			secret:         jwtSecret,
			setupAuth:      func(t *testing.T) string { return "" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Invalid header format",
			secret:         jwtSecret,
			setupAuth:      func(t *testing.T) string { return "Token abc" },
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Expired token",
			secret: jwtSecret,
			setupAuth: func(t *testing.T) string {
				return "Bearer " + signedToken(t, jwtSecret, -time.Hour)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:   "Token signed with another secret",
			secret: jwtSecret,
			setupAuth: func(t *testing.T) string {
				return "Bearer " + signedToken(t, "other-secret", time.Hour)
			},
			expectedStatus: http.StatusUnauthorized,
		},
		{
			name:           "Authentication disabled",
			secret:         "",
			setupAuth:      func(t *testing.T) string { return "" },
			expectedStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := gin.New()
			r.Use(Auth(Dependencies{Config: AuthConfig{JwtSecret: tt.secret}}))
			r.GET("/test", func(c *gin.Context) {
				userID, _ := GetUserID(c)
				c.JSON(http.StatusOK, gin.H{
					"user_id": userID,
				})
			})

			req := httptest.NewRequest("GET", "/test", nil)

			if authHeader := tt.setupAuth(t); authHeader != "" {
				req.Header.Set("Authorization", authHeader)
			}

			w := httptest.NewRecorder()
			r.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)

			if tt.expectedStatus == http.StatusOK {
				var response map[string]string
				require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
				assert.Equal(t, tt.expectUserID, response["user_id"])
			}
		})
	}
}
