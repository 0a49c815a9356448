// Package auth serves registration and login, exchanging credentials
// for bearer tokens.
package auth

import (
	"net/http"
	"strings"

	userstore "github.com/campusclubs/clubhub/internal/app/store/users"
	sysauth "github.com/campusclubs/clubhub/internal/app/system/auth"
	"github.com/campusclubs/clubhub/internal/app/system/httpjson"
	"github.com/campusclubs/clubhub/internal/app/system/timeouts"
	"github.com/campusclubs/clubhub/internal/domain/models"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Handler holds dependencies for the auth endpoints.
type Handler struct {
	Users  *userstore.Store
	Tokens *sysauth.TokenManager
	Log    *zap.Logger
}

func NewHandler(users *userstore.Store, tokens *sysauth.TokenManager, logger *zap.Logger) *Handler {
	return &Handler{Users: users, Tokens: tokens, Log: logger}
}

type registerRequest struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

type authResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

// Register handles POST /auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.FullName) == "" || strings.TrimSpace(req.Email) == "" {
		httpjson.WriteBadRequest(w, "full_name and email are required")
		return
	}
	if len(req.Password) < 8 {
		httpjson.WriteBadRequest(w, "password must be at least 8 characters")
		return
	}
	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role != "student" && role != "club_head" {
		httpjson.WriteBadRequest(w, `role must be "student" or "club_head"`)
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.Log.Error("password hash failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Medium(), h.Log, "register user")
	defer cancel()

	created, err := h.Users.Create(ctx, models.User{
		FullName:     req.FullName,
		Email:        req.Email,
		PasswordHash: string(hash),
		Role:         role,
	})
	if err != nil {
		httpjson.WriteError(w, err)
		return
	}

	token, err := h.Tokens.Issue(created.ID)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}

	h.Log.Info("user registered",
		zap.String("user_id", created.ID.Hex()),
		zap.String("role", created.Role))
	httpjson.Write(w, http.StatusCreated, authResponse{Token: token, User: created})
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /auth/login. Missing user and wrong password get
// the same response, so the endpoint cannot be used to probe addresses.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := httpjson.Decode(r, &req); err != nil {
		httpjson.WriteBadRequest(w, "invalid JSON body")
		return
	}

	ctx, cancel := timeouts.WithTimeout(r.Context(), timeouts.Short(), h.Log, "login")
	defer cancel()

	u, err := h.Users.GetByEmail(ctx, req.Email)
	if err != nil {
		if err != mongo.ErrNoDocuments {
			h.Log.Error("login lookup failed", zap.Error(err))
		}
		httpjson.WriteUnauthorized(w, "invalid email or password")
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		httpjson.WriteUnauthorized(w, "invalid email or password")
		return
	}

	token, err := h.Tokens.Issue(u.ID)
	if err != nil {
		h.Log.Error("token issue failed", zap.Error(err))
		httpjson.WriteError(w, err)
		return
	}

	httpjson.Write(w, http.StatusOK, authResponse{Token: token, User: *u})
}
