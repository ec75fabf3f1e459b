// Package middleware содержит HTTP middleware для сервиса вовлечённости.
package middleware

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

type contextKey string

const adminKey contextKey = "admin"

const (
	authCookieName = "admin_token"
	authCookieTTL  = 24 * time.Hour
	adminSubject   = "admin"
)

// AuthMiddleware выполняет проверку аутентификации администратора по подписанному cookie.
// Ядро сервиса видит только сам факт аутентификации: хранение учётных данных
// и обновление сессий остаются за пределами этого слоя.
type AuthMiddleware struct {
	secretKey []byte
}

// NewAuthMiddleware создаёт новый экземпляр AuthMiddleware с указанным секретным ключом.
func NewAuthMiddleware(secret string) *AuthMiddleware {
	key := []byte(secret)
	if len(key) == 0 {
		randomKey := make([]byte, 32)
		if _, err := rand.Read(randomKey); err == nil {
			key = randomKey
		} else {
			key = []byte("default-secret-key")
		}
	}

	return &AuthMiddleware{
		secretKey: key,
	}
}

// Middleware проверяет cookie авторизации и помечает запрос как административный.
func (a *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(authCookieName)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		if !a.verifyCookie(cookie.Value) {
			http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
			return
		}

		ctx := context.WithValue(r.Context(), adminKey, true)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// SetAuthCookie устанавливает cookie административной сессии.
func (a *AuthMiddleware) SetAuthCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     authCookieName,
		Value:    a.sign(adminSubject),
		Path:     "/",
		Expires:  time.Now().Add(authCookieTTL),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

// ClearAuthCookie завершает административную сессию.
func (a *AuthMiddleware) ClearAuthCookie(w http.ResponseWriter) {
	cookie := &http.Cookie{
		Name:     authCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}

	http.SetCookie(w, cookie)
}

func (a *AuthMiddleware) sign(subject string) string {
	mac := hmac.New(sha256.New, a.secretKey)
	mac.Write([]byte(subject))
	signature := mac.Sum(nil)
	return subject + "." + hex.EncodeToString(signature)
}

func (a *AuthMiddleware) verifyCookie(cookieValue string) bool {
	parts := strings.Split(cookieValue, ".")
	if len(parts) != 2 {
		return false
	}

	subject := parts[0]
	if subject != adminSubject {
		return false
	}

	expected := a.sign(subject)
	expectedParts := strings.Split(expected, ".")
	if len(expectedParts) != 2 {
		return false
	}

	return hmac.Equal([]byte(parts[1]), []byte(expectedParts[1]))
}

// IsAdminFromContext сообщает, прошёл ли запрос административную аутентификацию.
func IsAdminFromContext(ctx context.Context) bool {
	v, ok := ctx.Value(adminKey).(bool)
	return ok && v
}
