package websocket

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/yogaputrap/createsync-platform/internal/middleware"
	"github.com/yogaputrap/createsync-platform/internal/utils"
)

type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return e.Message
}

type AuthenticatorFunc func(r *http.Request) (userID string, err error)

// JWTWebSocketAuth authenticates the websocket handshake: token signature
// plus a live Redis session for this device. This only gates the upgrade;
// every send_message frame is re-verified independently because the token
// can expire mid-connection.
func JWTWebSocketAuth(publicKey *rsa.PublicKey, rdb *redis.Client) AuthenticatorFunc {
	return func(r *http.Request) (string, error) {
		fp, ok := r.Context().Value(middleware.FingerprintKey).(string)
		if !ok || fp == "" {
			return "", &AuthError{Message: "missing device fingerprint"}
		}

		token := getTokenFromRequest(r)
		if token == "" {
			return "", &AuthError{Message: "missing token"}
		}

		claims, err := utils.ParseAndVerifySign(token, publicKey)
		if err != nil {
			return "", &AuthError{Message: "invalid or expired token"}
		}

		sessionKey := fmt.Sprintf("session:%s:%s", claims.Sub, fp)
		ctx := context.Background()

		exists, err := rdb.Exists(ctx, sessionKey).Result()
		if err != nil || exists == 0 {
			return "", &AuthError{Message: "session not found or revoked"}
		}

		return claims.Sub, nil
	}
}

func getTokenFromRequest(r *http.Request) string {
	// Option 1: Authorization header
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return parts[1]
		}
	}

	// Option 2: Query parameter
	token := r.URL.Query().Get("token")
	if token != "" {
		return token
	}

	// Option 3: Cookie
	cookie, err := r.Cookie("access_token")
	if err == nil && cookie.Value != "" {
		return cookie.Value
	}

	return ""
}
