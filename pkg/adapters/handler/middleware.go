package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/wadjakorntonsri/knowhub/pkg/config"
)

const sessionCookie = "hub_session"

type ctxKey int

const sessionKey ctxKey = iota

type Middleware struct {
	jwtSecret    []byte
	ttl          time.Duration
	isProduction bool
	logger       *zap.Logger
	now          func() time.Time
}

func NewMiddleware(cfg *config.Config, logger *zap.Logger) *Middleware {
	ttl := cfg.SessionIdleTTL
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	return &Middleware{
		jwtSecret:    []byte(cfg.SessionSecret),
		ttl:          ttl,
		isProduction: cfg.IsProduction(),
		logger:       logger,
		now:          time.Now,
	}
}

// SessionMiddleware resolves the session id from the signed cookie, minting a
// new session when the cookie is missing, tampered or expired. The cookie is
// refreshed on every request so idle expiry follows activity.
func (m *Middleware) SessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := ""
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			id = m.parseSession(cookie.Value)
		}
		if id == "" {
			id = uuid.NewString()
			m.logger.Debug("Minted session", zap.String("session", id))
		}

		token, err := m.signSession(id)
		if err != nil {
			m.logger.Error("Failed to sign session", zap.Error(err))
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		http.SetCookie(w, &http.Cookie{
			Name:     sessionCookie,
			Value:    token,
			Path:     "/",
			MaxAge:   int(m.ttl.Seconds()),
			HttpOnly: true,
			Secure:   m.isProduction,
			SameSite: http.SameSiteLaxMode,
		})

		ctx := context.WithValue(r.Context(), sessionKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OptionalSession attaches the session from a valid cookie but never mints
// or refreshes one.
func (m *Middleware) OptionalSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie(sessionCookie); err == nil {
			if id := m.parseSession(cookie.Value); id != "" {
				r = r.WithContext(context.WithValue(r.Context(), sessionKey, id))
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (m *Middleware) parseSession(tokenString string) string {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.jwtSecret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(m.now))
	if err != nil || !token.Valid {
		return ""
	}
	if _, err := uuid.Parse(claims.Subject); err != nil {
		return ""
	}
	return claims.Subject
}

func (m *Middleware) signSession(id string) (string, error) {
	now := m.now()
	claims := &jwt.RegisteredClaims{
		Subject:   id,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.jwtSecret)
}

// SessionID returns the id stored by SessionMiddleware, or "" outside it.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey).(string)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	if r.status == 0 {
		r.status = code
	}
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying Flusher.
func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// RequestLogger logs one line per request after it completes.
func (m *Middleware) RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)
		if rec.status == 0 {
			rec.status = http.StatusOK
		}
		m.logger.Info("Request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Int("bytes", rec.bytes),
			zap.Duration("elapsed", time.Since(start)))
	})
}
