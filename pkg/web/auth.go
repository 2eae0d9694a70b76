package web

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/rs/zerolog/log"
)

// PushAuthRequired verifies the bearer token push services sign their
// deliveries with. An empty secret disables the check (local development).
func (h *Handlers) PushAuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.PushSecret == "" {
			c.Next()
			return
		}

		authHeader := c.Request.Header.Get("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "missing Authorization header"})
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid Authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		token := parts[1]

		parser := jwt.Parser{
			SkipClaimsValidation: h.Debug,
		}
		parsedToken, err := parser.Parse(token, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(h.PushSecret), nil
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to validate push token")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to validate token"})
			c.Abort()
			return
		}

		if !parsedToken.Valid {
			log.Warn().Msg("Failed to validate push token, something wrong with claims")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "failed to validate token"})
			c.Abort()
			return
		}

		c.Next()
	}
}
