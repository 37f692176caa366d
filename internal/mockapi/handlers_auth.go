package mockapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sqrts/internal/apiclient"
	"sqrts/internal/validation"
)

func (s *Server) authResponse(w http.ResponseWriter, u *User) {
	access, refresh, err := s.issuePair(u)
	if err != nil {
		s.log.Errorf("issue tokens: %v", err)
		writeError(w, http.StatusInternalServerError, "could not issue tokens")
		return
	}
	writeJSON(w, http.StatusOK, apiclient.AuthResponse{
		AccessToken:  access,
		RefreshToken: refresh,
		UserName:     u.UserName,
		Email:        u.Email,
		Role:         u.Role,
		UserID:       u.ID,
		PhoneNumber:  u.PhoneNumber,
	})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req apiclient.RegistrationData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	res := validation.ValidateRegistration(validation.Registration{
		Username:    req.UserName,
		PhoneNumber: req.PhoneNumber,
		Email:       req.Email,
		Password:    req.Password,
	})
	if !res.Valid() {
		writeJSON(w, http.StatusBadRequest, map[string]any{"error": "validation failed", "fields": res.Map()})
		return
	}
	if req.Role == "" {
		req.Role = apiclient.RoleUser
	}

	u, err := s.users.Create(strings.TrimSpace(req.UserName), strings.TrimSpace(req.Email), strings.TrimSpace(req.PhoneNumber), req.Role, req.Password)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.log.Infof("registered %s (%s)", u.Email, u.ID)

	if err := s.issueOTP(r.Context(), u.Email, u.PhoneNumber); err != nil {
		s.log.Warnf("register %s: send otp: %v", u.Email, err)
	}
	s.authResponse(w, u)
}

func (s *Server) handleAuthenticate(w http.ResponseWriter, r *http.Request) {
	var req apiclient.LoginData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.users.Authenticate(req.Email, req.Password)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if dev := r.Header.Get("X-Device-ID"); dev != "" {
		s.log.Infof("login %s from device %s", u.Email, dev)
	}
	s.authResponse(w, u)
}

// issueOTP stores a fresh code for email and texts it to phone.
func (s *Server) issueOTP(ctx context.Context, email, phone string) error {
	code, err := GenerateCode(s.cfg.OTPLength)
	if err != nil {
		return err
	}
	if err := s.otps.Save(ctx, email, code, s.cfg.OTPTTL); err != nil {
		return err
	}
	s.metrics.otpSent.Inc()
	msg := fmt.Sprintf("Your SQRTS verification code is %s. It expires in %d minutes.", code, int(s.cfg.OTPTTL.Minutes()))
	return s.notifier.SendSMS(phone, msg)
}

func (s *Server) handleSendOTP(w http.ResponseWriter, r *http.Request) {
	var req apiclient.OTPData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	u, err := s.users.Get(req.Email)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	phone := req.PhoneNumber
	if phone == "" {
		phone = u.PhoneNumber
	}
	if err := s.issueOTP(r.Context(), u.Email, phone); err != nil {
		s.log.Errorf("send otp %s: %v", u.Email, err)
		writeError(w, http.StatusInternalServerError, "failed to send otp")
		return
	}
	writeJSON(w, http.StatusOK, responseMsg{ResponseMsg: "OTP sent"})
}

func (s *Server) handleValidateOTP(w http.ResponseWriter, r *http.Request) {
	var req apiclient.OTPData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := s.otps.Verify(r.Context(), req.Email, req.OTP, s.cfg.MaxAttempts); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if err := s.users.MarkVerified(req.Email); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, responseMsg{ResponseMsg: "OTP verified"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req apiclient.RefreshData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	claims, err := s.parseToken(req.RefreshToken, tokenRefresh)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	u, err := s.users.Get(claims.Email)
	if err != nil {
		writeError(w, http.StatusUnauthorized, ErrTokenInvalid.Error())
		return
	}
	s.authResponse(w, u)
}

func (s *Server) handleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req apiclient.ChangePasswordData
	if err := decode(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.NewPassword != req.ConfirmationPassword {
		writeJSON(w, http.StatusBadRequest, responseMsg{ResponseMsg: "Passwords do not match"})
		return
	}
	if !validation.IsStrongPassword(req.NewPassword) {
		writeJSON(w, http.StatusBadRequest, responseMsg{ResponseMsg: "Password too weak"})
		return
	}
	if _, err := s.users.Get(req.Email); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	if _, err := s.users.Authenticate(req.Email, req.CurrentPassword); err != nil {
		writeJSON(w, http.StatusBadRequest, responseMsg{ResponseMsg: "Wrong password"})
		return
	}
	if err := s.users.SetPassword(req.Email, req.NewPassword); err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}
	s.log.Infof("password changed for %s", req.Email)
	writeJSON(w, http.StatusOK, responseMsg{ResponseMsg: "Password changed successfully"})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	email := r.URL.Query().Get("email")
	if email == "" {
		var body struct {
			Email string `json:"email"`
		}
		_ = decode(r, &body)
		email = body.Email
	}
	if email != "" {
		s.log.Infof("logout %s", email)
	}
	writeJSON(w, http.StatusOK, responseMsg{ResponseMsg: "Logged out"})
}

func (s *Server) handleGetUsers(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.users.List())
}

type ctxKey struct{}

// requireAuth accepts only requests carrying a valid access token.
func (s *Server) requireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		raw, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || raw == "" {
			writeError(w, http.StatusUnauthorized, "missing bearer token")
			return
		}
		claims, err := s.parseToken(raw, tokenAccess)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err.Error())
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, claims)))
	})
}

func claimsFrom(ctx context.Context) (*Claims, error) {
	c, ok := ctx.Value(ctxKey{}).(*Claims)
	if !ok {
		return nil, errors.New("no claims in context")
	}
	return c, nil
}
