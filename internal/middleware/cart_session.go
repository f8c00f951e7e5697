package middleware

import (
	"errors"
	"net/http"
	"time"

	"tmgear/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	SessionCookieName = "tm_cart_session"
	CtxSessionIDKey   = "session_id" // string

	// ブラウザの上限（400日）
	sessionCookieMaxAge = 400 * 24 * time.Hour
)

// CartSession はカート用のセッションcookieを検証し、無ければ発行する。
// cookieの中身はsub=セッションID(uuid)のHS256 JWT。期限は持たせない。
func CartSession(cfg config.Config) echo.MiddlewareFunc {
	secret := []byte(cfg.SessionSecret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//既存のcookieがあれば検証する
			if ck, err := c.Cookie(SessionCookieName); err == nil && ck.Value != "" {
				if sid, err := parseSessionToken(ck.Value, secret); err == nil {
					c.Set(CtxSessionIDKey, sid)
					return next(c)
				}
			}

			//無い・壊れている・署名が違う → 新しいセッション
			sid := uuid.NewString()
			signed, err := issueSessionToken(sid, secret, time.Now())
			if err != nil {
				return c.JSON(http.StatusInternalServerError, errorJSON("session error"))
			}

			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    signed,
				Path:     "/",
				MaxAge:   int(sessionCookieMaxAge.Seconds()),
				HttpOnly: true,
				Secure:   cfg.IsProd(),
				SameSite: http.SameSiteLaxMode,
			})
			c.Set(CtxSessionIDKey, sid)

			return next(c)
		}
	}
}

// contextからセッションIDを取る（無ければ空文字）
func SessionIDFrom(c echo.Context) string {
	sid, _ := c.Get(CtxSessionIDKey).(string)
	return sid
}

func issueSessionToken(sessionID string, secret []byte, now time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		Subject:  sessionID,
		IssuedAt: jwt.NewNumericDate(now),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
}

func parseSessionToken(raw string, secret []byte) (string, error) {
	var claims jwt.RegisteredClaims
	token, err := jwt.ParseWithClaims(raw, &claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil || token == nil || !token.Valid {
		return "", errors.New("invalid session token")
	}

	//subはuuidであること
	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return "", errors.New("invalid sub")
	}
	return id.String(), nil
}

type errorResponse struct {
	Error string `json:"error"`
}

func errorJSON(msg string) errorResponse {
	return errorResponse{Error: msg}
}
