package handlers

import (
	"errors"
	"net/http"

	"github.com/markbates/goth/gothic"

	"github.com/petermazzocco/renovation-portal/internal/access"
	"github.com/petermazzocco/renovation-portal/internal/auth"
	"github.com/petermazzocco/renovation-portal/internal/utils"
	"github.com/petermazzocco/renovation-portal/models"
)

// Register creates a customer account and signs it in.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.Accounts.Register(r.Context(), auth.RegisterInput{
		FullName: req.FullName,
		Address:  req.Address,
		Phone:    req.Phone,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, utils.ErrEmailTaken) {
			utils.RespondErrorWithCode(w, http.StatusConflict, utils.ErrCodeConflict, "Email already registered.", nil, err)
			return
		}
		h.fail(w, r, err)
		return
	}

	h.startSession(w, r, user, http.StatusCreated)
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.Accounts.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "Invalid email or password.", nil, err)
			return
		}
		h.fail(w, r, err)
		return
	}

	h.startSession(w, r, user, http.StatusOK)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessions.Logout(w, r); err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to end session", nil, err)
		return
	}
	if h.OAuthEnabled {
		_ = gothic.Logout(w, r)
	}
	utils.RespondWithJSON(w, http.StatusOK, Message{Message: "Logged out."})
}

// BeginOAuth starts the provider handshake, or finishes it straight away
// when the provider session is still valid.
func (h *Handler) BeginOAuth(w http.ResponseWriter, r *http.Request) {
	if gothUser, err := gothic.CompleteUserAuth(w, r); err == nil {
		h.finishOAuth(w, r, gothUser.Email)
		return
	}
	gothic.BeginAuthHandler(w, r)
}

// OAuthCallback signs in the existing account matching the provider's
// email. OAuth never registers new accounts.
func (h *Handler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	gothUser, err := gothic.CompleteUserAuth(w, r)
	if err != nil {
		utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Sign-in failed", nil, err)
		return
	}
	h.finishOAuth(w, r, gothUser.Email)
}

func (h *Handler) finishOAuth(w http.ResponseWriter, r *http.Request, email string) {
	user, err := h.Accounts.FindForOAuth(r.Context(), email)
	if err != nil {
		if errors.Is(err, utils.ErrInvalidCredentials) {
			utils.RespondErrorWithCode(w, http.StatusUnauthorized, utils.ErrCodeInvalidCredentials, "No account is registered for this email.", nil, err)
			return
		}
		h.fail(w, r, err)
		return
	}
	if err := h.Sessions.Login(w, r, user); err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to save session", nil, err)
		return
	}
	http.Redirect(w, r, dashboardPath(access.ActorFor(user)), http.StatusSeeOther)
}

// Me returns the signed-in account.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	actor := auth.ActorFrom(r.Context())
	user, err := h.Accounts.Get(r.Context(), actor.UserID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, user)
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User, status int) {
	if err := h.Sessions.Login(w, r, user); err != nil {
		utils.RespondErrorWithCode(w, http.StatusInternalServerError, utils.ErrCodeInternal, "Failed to save session", nil, err)
		return
	}
	utils.Logger.WithField("user", user.ID).WithField("role", user.Role).Info("User signed in")
	utils.RespondWithJSON(w, status, LoginResponse{User: user, Redirect: dashboardPath(access.ActorFor(user))})
}
