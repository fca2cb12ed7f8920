package handler

import (
	"net/http"
	"time"

	"github.com/julesapp/crm-api/internal/auth"
	"github.com/julesapp/crm-api/internal/domain"
	"github.com/julesapp/crm-api/internal/mapper"
	"go.uber.org/zap"
)

// CookieSettings controls the session cookie set on sign-in
type CookieSettings struct {
	Name   string
	Secure bool
}

type AuthHandler struct {
	sessions *auth.Sessions
	cookie   CookieSettings
	logger   *zap.Logger
}

func NewAuthHandler(sessions *auth.Sessions, cookie CookieSettings, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		cookie:   cookie,
		logger:   logger,
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *auth.Session) {
	if h.cookie.Name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	if h.cookie.Name == "" {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

// SignUp godoc
// @Summary Create an account
// @Description Creates the account and signs it in.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.CredentialsRequest true "Credentials"
// @Success 201 {object} domain.SessionDTO
// @Failure 400 {object} domain.APIError
// @Failure 409 {object} domain.APIError "Email already registered"
// @Router /auth/signup [post]
func (h *AuthHandler) SignUp(w http.ResponseWriter, r *http.Request) {
	var req domain.CredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessions.SignUp(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, "sign up")
		return
	}

	h.setSessionCookie(w, session)
	respondJSON(w, http.StatusCreated, mapper.ToSessionDTO(session))
}

// Login godoc
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body domain.CredentialsRequest true "Credentials"
// @Success 200 {object} domain.SessionDTO
// @Failure 401 {object} domain.APIError
// @Router /auth/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req domain.CredentialsRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	session, err := h.sessions.SignIn(r.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(w, h.logger, err, "sign in")
		return
	}

	h.setSessionCookie(w, session)
	respondJSON(w, http.StatusOK, mapper.ToSessionDTO(session))
}

// Logout godoc
// @Summary Sign out
// @Description Ends the current session. Open streams of the session are closed.
// @Tags Auth
// @Success 204 "No Content"
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Sign in to continue")
		return
	}

	if err := h.sessions.SignOut(r.Context(), user); err != nil {
		respondServiceError(w, h.logger, err, "sign out")
		return
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me godoc
// @Summary Get current authenticated user
// @Tags Auth
// @Produce json
// @Success 200 {object} domain.UserDTO
// @Failure 401 {object} domain.APIError
// @Security BearerAuth
// @Router /auth/me [get]
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := auth.FromContext(r.Context())
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Sign in to continue")
		return
	}
	respondJSON(w, http.StatusOK, mapper.ToCurrentUserDTO(user))
}
