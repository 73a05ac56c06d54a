package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/EmpoweredVote/civic-requests/internal/utils"
	"github.com/EmpoweredVote/civic-requests/internal/validation"
)

// SignUpRequest represents the registration payload.
type SignUpRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"min=6"`
	FirstName string `json:"firstName" validate:"min=2"`
	LastName  string `json:"lastName" validate:"min=2"`
}

// Normalize trims the name fields and folds the email so length rules apply
// to what is stored.
func (r *SignUpRequest) Normalize() {
	r.Email = normalizeEmail(r.Email)
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
}

// SignInRequest represents the login payload.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is returned by sign-in and sign-up.
type SessionResponse struct {
	AccessToken string     `json:"accessToken"`
	User        PublicUser `json:"user"`
}

type Handler struct {
	gate      *Gate
	validator *validation.Validator
	cookies   CookieOptions
}

func NewHandler(gate *Gate, v *validation.Validator, cookies CookieOptions) *Handler {
	return &Handler{gate: gate, validator: v, cookies: cookies}
}

func (h *Handler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !utils.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	session, err := h.gate.Register(r.Context(), RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		if errors.Is(err, ErrDuplicateEmail) {
			utils.WriteError(w, http.StatusBadRequest, "User with this email already exists")
			return
		}
		utils.WriteServerError(w, r, err, "Internal server error")
		return
	}

	SetSessionCookie(w, session.Token, h.gate.Tokens().TTL(), h.cookies)
	utils.WriteJSON(w, http.StatusCreated, SessionResponse{AccessToken: session.Token, User: session.User})
}

func (h *Handler) SignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if !utils.DecodeJSON(w, r, h.validator, &req) {
		return
	}

	session, err := h.gate.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			slog.WarnContext(r.Context(), "sign-in failed", "email", req.Email, "reason", "invalid_credentials")
			utils.WriteError(w, http.StatusUnauthorized, "Invalid credentials")
			return
		}
		utils.WriteServerError(w, r, err, "Internal server error")
		return
	}

	SetSessionCookie(w, session.Token, h.gate.Tokens().TTL(), h.cookies)
	utils.WriteJSON(w, http.StatusOK, SessionResponse{AccessToken: session.Token, User: session.User})
}

func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	token := TokenFromRequest(r)
	if token == "" {
		utils.WriteError(w, http.StatusUnauthorized, "Token not found")
		return
	}

	user, err := h.gate.CurrentIdentity(r.Context(), token)
	switch {
	case err == nil:
		utils.WriteJSON(w, http.StatusOK, user)
	case errors.Is(err, ErrInvalidToken):
		utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
	case errors.Is(err, ErrNotFound):
		utils.WriteError(w, http.StatusNotFound, "User not found")
	default:
		utils.WriteServerError(w, r, err, "Internal server error")
	}
}

// Logout always succeeds, with or without a cookie on the request.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	_ = h.gate.Logout(r.Context())
	ClearSessionCookie(w, h.cookies)
	utils.WriteJSON(w, http.StatusOK, map[string]string{"message": "Logged out successfully"})
}
