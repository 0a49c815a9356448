package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/campusclubs/clubhub/internal/app/system/httpjson"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

/*─────────────────────────────────────────────────────────────────────────────*
| Current-User helper                                                        |
*─────────────────────────────────────────────────────────────────────────────*/

// RequestUser is the verified identity injected into r.Context() by the
// bearer middleware. The core trusts it unconditionally once present.
type RequestUser struct {
	ID    string
	Name  string
	Email string
	Role  string
}

type ctxKey string

const currentUserKey ctxKey = "currentUser"

// CurrentUser returns the request user & "found?" flag.
func CurrentUser(r *http.Request) (*RequestUser, bool) {
	u, ok := r.Context().Value(currentUserKey).(*RequestUser)
	return u, ok
}

/*─────────────────────────────────────────────────────────────────────────────*
| Token manager                                                              |
*─────────────────────────────────────────────────────────────────────────────*/

// TokenManager issues and verifies HS256 bearer tokens. On every
// authenticated request the subject is re-fetched from the users
// collection, so deleted accounts and profile changes take effect
// immediately rather than at token expiry.
type TokenManager struct {
	secret []byte
	expiry time.Duration
	users  *mongo.Collection
	log    *zap.Logger
}

// NewTokenManager validates the signing secret and constructs a manager.
func NewTokenManager(secret string, expiry time.Duration, db *mongo.Database, logger *zap.Logger) (*TokenManager, error) {
	if secret == "" {
		return nil, fmt.Errorf("token secret is empty; provide ≥32 random chars")
	}
	if len(secret) < 32 {
		logger.Warn("token secret is short; 32+ chars recommended",
			zap.Int("length", len(secret)))
	}
	return &TokenManager{
		secret: []byte(secret),
		expiry: expiry,
		users:  db.Collection("users"),
		log:    logger,
	}, nil
}

type claims struct {
	jwt.RegisteredClaims
}

// Issue returns a signed token for the given user.
func (tm *TokenManager) Issue(userID primitive.ObjectID) (string, error) {
	now := time.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.Hex(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(tm.expiry)),
		},
	})
	return tok.SignedString(tm.secret)
}

// verify parses the token and returns the subject user ID.
func (tm *TokenManager) verify(raw string) (primitive.ObjectID, error) {
	var c claims
	_, err := jwt.ParseWithClaims(raw, &c, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", t.Header["alg"])
		}
		return tm.secret, nil
	})
	if err != nil {
		return primitive.NilObjectID, err
	}
	return primitive.ObjectIDFromHex(c.Subject)
}

/*─────────────────────────────────────────────────────────────────────────────*
| Middleware                                                                 |
*─────────────────────────────────────────────────────────────────────────────*/

// LoadBearerUser injects the user into context when a valid bearer
// token is presented. Invalid or absent tokens just continue without a
// user; RequireSignedIn decides whether that matters.
func (tm *TokenManager) LoadBearerUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}

		userID, err := tm.verify(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		var u models.User
		if err := tm.users.FindOne(r.Context(), bson.M{"_id": userID}).Decode(&u); err != nil {
			if err != mongo.ErrNoDocuments {
				tm.log.Warn("bearer user fetch failed", zap.Error(err))
			}
			next.ServeHTTP(w, r)
			return
		}

		r = withUser(r, &RequestUser{
			ID:    u.ID.Hex(),
			Name:  u.FullName,
			Email: u.Email,
			Role:  u.Role,
		})
		next.ServeHTTP(w, r)
	})
}

// RequireSignedIn ensures there is a user in context (set by LoadBearerUser).
func RequireSignedIn(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := CurrentUser(r); ok {
			next.ServeHTTP(w, r)
			return
		}
		httpjson.WriteUnauthorized(w, "authentication required")
	})
}

// RequireRole ensures there is a user with one of the allowed roles in
// context.
func RequireRole(allowed ...string) func(http.Handler) http.Handler {
	set := make(map[string]struct{}, len(allowed))
	for _, role := range allowed {
		set[strings.ToLower(strings.TrimSpace(role))] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			u, ok := CurrentUser(r)
			if !ok {
				httpjson.WriteUnauthorized(w, "authentication required")
				return
			}
			if _, has := set[strings.ToLower(u.Role)]; !has {
				httpjson.Write(w, http.StatusForbidden, map[string]any{
					"error": map[string]string{"code": "forbidden", "message": "access denied"},
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithTestUser injects a user into the request context, bypassing the
// bearer middleware. Test helper only.
func WithTestUser(r *http.Request, u *RequestUser) *http.Request {
	return withUser(r, u)
}

// helpers

func withUser(r *http.Request, u *RequestUser) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), currentUserKey, u))
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if len(h) > 7 && strings.EqualFold(h[:7], "Bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}
