package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rogerio-castellano/retail-inventory/internal/auth"
	"github.com/rogerio-castellano/retail-inventory/internal/http/ban"
	"github.com/rogerio-castellano/retail-inventory/internal/http/middleware"
	"github.com/rogerio-castellano/retail-inventory/internal/logging"
	"github.com/rogerio-castellano/retail-inventory/internal/models"
	"github.com/rogerio-castellano/retail-inventory/internal/repo"
	"go.uber.org/zap"
)

// RegisterHandler godoc
// @Summary Register an account and return a session token
// @Description Admins register with email and password, users with a 10 digit phone number.
// @Tags users
// @Accept json
// @Produce json
// @Param account body RegisterRequest true "Account to create"
// @Success 201 {object} AuthResult
// @Failure 400 {object} MessageResponse
// @Router /api/users/register [post]
func (h *Handler) RegisterHandler(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := readJSON(w, r, &req); err != nil {
		h.failMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	identity, msg := identityFromRegistration(req)
	if msg != "" {
		h.failMessage(w, r, http.StatusBadRequest, msg)
		return
	}

	ctx := r.Context()
	var (
		filter       repo.UserFilter
		duplicateMsg string
	)
	switch id := identity.(type) {
	case models.AdminIdentity:
		filter = repo.UserFilter{Email: id.Email}
		duplicateMsg = "Email already registered"
	case models.UserIdentity:
		filter = repo.UserFilter{PhoneNumber: id.PhoneNumber}
		duplicateMsg = "Phone number already registered"
	}

	if _, err := h.users.FindOne(ctx, filter); err == nil {
		h.failMessage(w, r, http.StatusBadRequest, duplicateMsg)
		return
	} else if !errors.Is(err, repo.ErrUserNotFound) {
		h.registrationError(w, r, err)
		return
	}

	if admin, ok := identity.(models.AdminIdentity); ok {
		hash, err := auth.HashPassword(req.Password)
		if err != nil {
			h.registrationError(w, r, err)
			return
		}
		admin.PasswordHash = hash
		identity = admin
	}

	now := h.now().UTC()
	created, err := h.users.CreateUser(ctx, models.User{
		Name:      strings.TrimSpace(req.Name),
		Identity:  identity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			h.failMessage(w, r, http.StatusBadRequest, duplicateMsg)
			return
		}
		h.registrationError(w, r, err)
		return
	}

	h.respondWithToken(w, r, http.StatusCreated, "User registered successfully", created)
}

// LoginHandler godoc
// @Summary Log in and return a session token
// @Description Users log in with phoneNumber only; admins with email and password.
// @Tags users
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Credentials"
// @Success 200 {object} AuthResult
// @Failure 400 {object} MessageResponse
// @Failure 401 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/users/login [post]
func (h *Handler) LoginHandler(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := readJSON(w, r, &req); err != nil {
		h.failMessage(w, r, http.StatusBadRequest, "Invalid request body")
		return
	}

	ctx := r.Context()
	var user models.User
	phone := strings.TrimSpace(req.PhoneNumber)
	email := normalizeEmail(req.Email)

	switch {
	case phone != "":
		if !phonePattern.MatchString(phone) {
			h.failMessage(w, r, http.StatusBadRequest, "Phone number must be 10 digits")
			return
		}
		found, err := h.users.FindOne(ctx, repo.UserFilter{Role: models.RoleUser, PhoneNumber: phone})
		if err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				h.failMessage(w, r, http.StatusNotFound, "User account not found with this phone number")
				return
			}
			h.loginError(w, r, err)
			return
		}
		user = found

	case email != "" && req.Password != "":
		if !emailPattern.MatchString(email) {
			h.failMessage(w, r, http.StatusBadRequest, "Invalid email format")
			return
		}
		found, err := h.users.FindOne(ctx, repo.UserFilter{Role: models.RoleAdmin, Email: email})
		if err != nil {
			if errors.Is(err, repo.ErrUserNotFound) {
				h.failMessage(w, r, http.StatusNotFound, "Admin account not found with this email")
				return
			}
			h.loginError(w, r, err)
			return
		}
		if !auth.CheckPassword(found.PasswordHash(), req.Password) {
			h.failMessage(w, r, http.StatusUnauthorized, "Invalid password")
			return
		}
		user = found

	default:
		h.failMessage(w, r, http.StatusBadRequest, "Please provide either phone number for user or email and password for admin")
		return
	}

	h.respondWithToken(w, r, http.StatusOK, "Login successful", user)
}

// ProfileHandler godoc
// @Summary Current account
// @Tags users
// @Produce json
// @Success 200 {object} UserResult
// @Failure 401 {object} MessageResponse
// @Router /api/users/profile [get]
// @Security BearerAuth
func (h *Handler) ProfileHandler(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		h.failMessage(w, r, http.StatusNotFound, "User not found")
		return
	}
	h.respond(w, r, http.StatusOK, UserResult{Success: true, Data: toUserResponse(user)})
}

// GetUsersHandler godoc
// @Summary List all accounts
// @Tags users
// @Produce json
// @Success 200 {object} UsersResult
// @Failure 403 {object} MessageResponse
// @Router /api/users/all [get]
// @Security BearerAuth
func (h *Handler) GetUsersHandler(w http.ResponseWriter, r *http.Request) {
	users, err := h.users.GetAll(r.Context())
	if err != nil {
		logging.FromContext(r.Context(), h.logger).Error("failed to list users", zap.Error(err))
		h.failMessage(w, r, http.StatusInternalServerError, "Server error while fetching users")
		return
	}

	data := make([]UserResponse, 0, len(users))
	for _, u := range users {
		data = append(data, toUserResponse(u))
	}
	h.respond(w, r, http.StatusOK, UsersResult{Success: true, Count: len(data), Data: data})
}

// BanEventsHandler godoc
// @Summary List ban events
// @Description Clients banned for repeatedly exceeding the account route rate limit, oldest first.
// @Tags users
// @Produce json
// @Success 200 {object} BanEventsResult
// @Failure 403 {object} MessageResponse
// @Router /api/users/bans [get]
// @Security BearerAuth
func (h *Handler) BanEventsHandler(w http.ResponseWriter, r *http.Request) {
	var events []ban.BanLogEntry
	if h.bans != nil {
		var err error
		events, err = h.bans.Events(r.Context())
		if err != nil {
			logging.FromContext(r.Context(), h.logger).Error("failed to read ban log", zap.Error(err))
			h.failMessage(w, r, http.StatusInternalServerError, "Server error while fetching ban events")
			return
		}
	}
	if events == nil {
		events = []ban.BanLogEntry{}
	}
	h.respond(w, r, http.StatusOK, BanEventsResult{Success: true, Count: len(events), Data: events})
}

// DeleteUserHandler godoc
// @Summary Delete an account
// @Tags users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} MessageResponse
// @Failure 400 {object} MessageResponse
// @Failure 403 {object} MessageResponse
// @Failure 404 {object} MessageResponse
// @Router /api/users/{id} [delete]
// @Security BearerAuth
func (h *Handler) DeleteUserHandler(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if current, ok := middleware.UserFromContext(r.Context()); ok && current.ID == id {
		h.failMessage(w, r, http.StatusBadRequest, "Admin cannot delete their own account")
		return
	}

	if err := h.users.Delete(r.Context(), id); err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			h.failMessage(w, r, http.StatusNotFound, "User not found")
			return
		}
		logging.FromContext(r.Context(), h.logger).Error("failed to delete user", zap.Error(err))
		h.failMessage(w, r, http.StatusInternalServerError, "Server error while deleting user")
		return
	}
	h.respond(w, r, http.StatusOK, MessageResponse{Success: true, Message: "User deleted successfully"})
}

func (h *Handler) respondWithToken(w http.ResponseWriter, r *http.Request, status int, message string, u models.User) {
	token, err := h.tokens.GenerateToken(u.ID)
	if err != nil {
		h.serverError(w, r, "failed to generate token", err)
		return
	}
	h.respond(w, r, status, AuthResult{
		Success: true,
		Message: message,
		UserData: UserData{
			ID:          u.ID,
			Name:        u.Name,
			Email:       u.Email(),
			PhoneNumber: u.PhoneNumber(),
			Role:        string(u.Role()),
			Token:       token,
		},
	})
}

func (h *Handler) registrationError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context(), h.logger).Error("registration failed", zap.Error(err))
	h.failMessage(w, r, http.StatusInternalServerError, "Server error during registration")
}

func (h *Handler) loginError(w http.ResponseWriter, r *http.Request, err error) {
	logging.FromContext(r.Context(), h.logger).Error("login failed", zap.Error(err))
	h.failMessage(w, r, http.StatusInternalServerError, "Server error during login")
}
