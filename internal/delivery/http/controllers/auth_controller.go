package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

type AuthController struct {
	Logger  *slog.Logger
	Service domain.AuthService
}

func NewAuthController(logger *slog.Logger, svc domain.AuthService) *AuthController {
	return &AuthController{
		Logger:  logger,
		Service: svc,
	}
}

// SignUpRequest is the request body for POST /auth/signup.
type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

// Validate implements helpers.Validator.
func (r *SignUpRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	if strings.TrimSpace(r.FullName) == "" {
		errs = append(errs, "full_name is required")
	}
	return errs
}

// SignUp godoc
// @Summary Create a user account
// @Description Registers a new user with email, password, and full name.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.SignUpRequest true "Signup payload"
// @Success 201 {object} helpers.APIResponse{data=domain.User}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/signup [post]
func (c *AuthController) SignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	user, err := c.Service.SignUp(r.Context(), req.Email, req.Password, req.FullName)
	if err != nil {
		writeServiceError(c.Logger, w, r, err)
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, user)
}

// LoginRequest is the request body for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements helpers.Validator.
func (r *LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(r.Email) == "" {
		errs = append(errs, "email is required")
	}
	if r.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the success payload for POST /auth/login.
type LoginResponse struct {
	Token string       `json:"token"`
	User  *domain.User `json:"user"`
}

// Login godoc
// @Summary Authenticate and issue a token
// @Description Verifies credentials and returns a Bearer token with the user profile.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body controllers.LoginRequest true "Login payload"
// @Success 200 {object} helpers.APIResponse{data=controllers.LoginResponse}
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (blocked account)"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}

	token, user, err := c.Service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrUserBlocked) {
			helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, err.Error())
			return
		}
		// Do not leak whether the email exists.
		helpers.WriteJSONError(w, http.StatusUnauthorized, helpers.ErrCodeUnauthorized, "invalid credentials")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, LoginResponse{Token: token, User: user})
}
