package http_handlers

import (
	"net/http"
	"strings"

	"github.com/baechuer/user-mgmt-service/internal/application/auth"
	"github.com/baechuer/user-mgmt-service/internal/logger"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/dto"
	"github.com/baechuer/user-mgmt-service/internal/transport/http/response"
)

type AuthHandler struct {
	svc         *auth.Service
	frontendURL string
}

func NewAuthHandler(svc *auth.Service, frontendURL string) *AuthHandler {
	return &AuthHandler{
		svc:         svc,
		frontendURL: strings.TrimRight(frontendURL, "/"),
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req dto.RegisterRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Register(r.Context(), auth.RegisterInput{
		Name:        req.Name,
		Email:       req.Email,
		Password:    req.Password,
		Designation: req.Designation,
	})
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Str("email", res.User.Email).
		Msg("user_registered")

	response.Created(w, dto.RegisterData{
		Message: "Registration successful. Please check your email to verify your account.",
		UserID:  res.User.ID,
	})
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req dto.LoginRequest
	if err := response.DecodeJSON(r, &req); err != nil {
		response.WriteError(w, r, err)
		return
	}

	req.Email = strings.TrimSpace(req.Email)
	if err := req.Validate(); err != nil {
		response.WriteError(w, r, err)
		return
	}

	res, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		response.WriteError(w, r, err)
		return
	}

	logger.WithCtx(r.Context()).Info().
		Str("user_id", res.User.ID).
		Msg("user_logged_in")

	response.OK(w, dto.LoginData{
		Token: res.Token,
		User: dto.LoginUserView{
			ID:          res.User.ID,
			Name:        res.User.Name,
			Email:       res.User.Email,
			Status:      string(res.User.Status),
			Designation: res.User.Designation,
		},
	})
}

// VerifyEmail lands browser clicks from the verification mail, so the
// outcome is a redirect to a frontend page rather than a JSON body.
func (h *AuthHandler) VerifyEmail(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimSpace(r.URL.Query().Get("token"))

	if err := h.svc.VerifyEmail(r.Context(), token); err != nil {
		logger.WithCtx(r.Context()).Warn().
			Err(err).
			Msg("email_verification_failed")
		http.Redirect(w, r, h.frontendURL+"/verification-failed", http.StatusFound)
		return
	}

	http.Redirect(w, r, h.frontendURL+"/verification-success", http.StatusFound)
}
