package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"household-ledger-go/internal/config"
	"household-ledger-go/pkg/logger"
)

// IdentityAuth verifies bearer tokens against the external identity
// service. Token issuance, sessions, and password handling all live there;
// this middleware only resolves a token into a user and refreshes the
// local profile copy.
type IdentityAuth struct {
	baseURL  string
	apiKey   string
	client   *http.Client
	profiles ProfileSaver
	log      logger.Logger
	skipAuth bool
	mockUser User
}

type contextKey int

const userKey contextKey = iota

type User struct {
	ID       string
	Email    string
	Username string
}

type ProfileSaver interface {
	UpsertProfile(ctx context.Context, userID, email, username, avatarURL string) error
}

type identityResponse struct {
	ID       string `json:"id"`
	Sub      string `json:"sub"`
	Email    string `json:"email"`
	Username string `json:"username"`
	Metadata map[string]interface{} `json:"user_metadata"`
}

func NewIdentityAuth(cfg config.IdentityConfig, profiles ProfileSaver, log logger.Logger) *IdentityAuth {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	return &IdentityAuth{
		baseURL:  strings.TrimRight(cfg.URL, "/"),
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: timeout},
		profiles: profiles,
		log:      log,
		skipAuth: cfg.SkipAuth,
		mockUser: User{
			ID:       strings.TrimSpace(cfg.MockUserID),
			Email:    strings.TrimSpace(cfg.MockEmail),
			Username: strings.TrimSpace(cfg.MockUsername),
		},
	}
}

func (a *IdentityAuth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if a.skipAuth {
			if a.mockUser.ID == "" {
				writeError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
				return
			}
			a.admit(w, r, next, a.mockUser)
			return
		}

		if a.baseURL == "" {
			writeError(w, http.StatusInternalServerError, "auth_not_configured", "identity service not configured")
			return
		}

		token, ok := bearerToken(r.Header.Get("Authorization"))
		if !ok {
			unauthorized(w)
			return
		}

		user, ok := a.verify(r.Context(), token)
		if !ok {
			unauthorized(w)
			return
		}
		a.admit(w, r, next, user)
	})
}

func (a *IdentityAuth) verify(ctx context.Context, token string) (User, bool) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return User{}, false
	}
	req.Header.Set("Authorization", "Bearer "+token)
	if a.apiKey != "" {
		req.Header.Set("apikey", a.apiKey)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		a.log.BusinessError("auth: identity service unreachable", err)
		return User{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return User{}, false
	}

	var payload identityResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return User{}, false
	}

	userID := payload.ID
	if userID == "" {
		userID = payload.Sub
	}
	if userID == "" {
		return User{}, false
	}

	username := payload.Username
	if username == "" {
		username = metadataString(payload.Metadata, "name")
	}

	return User{ID: userID, Email: payload.Email, Username: username}, true
}

func (a *IdentityAuth) admit(w http.ResponseWriter, r *http.Request, next http.Handler, user User) {
	if a.profiles != nil {
		if err := a.profiles.UpsertProfile(r.Context(), user.ID, user.Email, user.Username, ""); err != nil {
			a.log.BusinessError("auth: profile upsert failed", err, "user_id", user.ID)
		}
	}
	next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), user)))
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, "unauthorized", "invalid or missing bearer token")
}

func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func UserFromContext(ctx context.Context) (User, bool) {
	user, ok := ctx.Value(userKey).(User)
	if !ok || user.ID == "" {
		return User{}, false
	}
	return user, true
}

func metadataString(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	if parsed, ok := values[key].(string); ok {
		return parsed
	}
	return ""
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
