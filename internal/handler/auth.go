package handler

import (
	"errors"
	"log"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/toolshub/api/internal/auth"
	"github.com/toolshub/api/internal/model"
	"github.com/toolshub/api/internal/notify"
	"gorm.io/gorm"
)

// AuthHandler implements email-OTP sign-in: request a code, verify it,
// then run on JWT access tokens with DB-backed refresh tokens.
type AuthHandler struct {
	db            *gorm.DB
	otp           *auth.OTPService
	dispatcher    notify.Dispatcher
	jwtSecret     string
	allowedDomain string
}

func NewAuthHandler(db *gorm.DB, otp *auth.OTPService, dispatcher notify.Dispatcher, jwtSecret, allowedDomain string) *AuthHandler {
	return &AuthHandler{
		db:            db,
		otp:           otp,
		dispatcher:    dispatcher,
		jwtSecret:     jwtSecret,
		allowedDomain: allowedDomain,
	}
}

type TokenResponse struct {
	AccessToken  string      `json:"accessToken"`
	RefreshToken string      `json:"refreshToken"`
	ExpiresIn    int         `json:"expiresIn"`
	User         *model.User `json:"user"`
}

type otpRequest struct {
	Email string `json:"email" binding:"required"`
}

// RequestOTP issues a sign-in code and emails it. The response is the
// same whether or not the address is known, to avoid account enumeration.
func (h *AuthHandler) RequestOTP(c *gin.Context) {
	var req otpRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email is required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := mail.ParseAddress(email); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid email address"})
		return
	}
	if h.allowedDomain != "" && !strings.HasSuffix(email, "@"+h.allowedDomain) {
		c.JSON(http.StatusForbidden, gin.H{"error": "email domain not allowed"})
		return
	}

	code, err := h.otp.Issue(c.Request.Context(), email)
	if err != nil {
		log.Printf("Failed to issue OTP for %s: %v", email, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not issue sign-in code"})
		return
	}

	h.dispatcher.SendOTP(email, code)

	c.JSON(http.StatusOK, gin.H{"message": "if the address is valid, a sign-in code has been sent"})
}

type otpVerifyRequest struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyOTP exchanges a valid code for tokens, creating the user record
// on first sign-in.
func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var req otpVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email and code are required"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if err := h.otp.Verify(c.Request.Context(), email, req.Code); err != nil {
		if errors.Is(err, auth.ErrOTPNotFound) || errors.Is(err, auth.ErrOTPMismatch) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired code"})
			return
		}
		log.Printf("Failed to verify OTP for %s: %v", email, err)
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "could not verify sign-in code"})
		return
	}

	// Find or create user
	now := time.Now()
	var user model.User
	result := h.db.Where("email = ?", email).First(&user)
	if result.Error == gorm.ErrRecordNotFound {
		user = model.User{
			Email:       email,
			Name:        nameFromEmail(email),
			LastLoginAt: &now,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := h.db.Create(&user).Error; err != nil {
			log.Printf("Failed to create user %s: %v", email, err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create user"})
			return
		}
	} else if result.Error != nil {
		log.Printf("Failed to look up user %s: %v", email, result.Error)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to look up user"})
		return
	} else {
		h.db.Model(&user).Updates(map[string]interface{}{
			"last_login_at": now,
			"updated_at":    now,
		})
	}

	accessToken, err := auth.GenerateAccessToken(&user, h.jwtSecret)
	if err != nil {
		log.Printf("Failed to generate access token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
		return
	}

	refreshToken, err := auth.GenerateRefreshToken()
	if err != nil {
		log.Printf("Failed to generate refresh token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate refresh token"})
		return
	}

	refreshTokenModel := model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshToken,
		ExpiresAt: time.Now().Add(auth.RefreshTokenExpiry),
		CreatedAt: time.Now(),
	}
	if err := h.db.Create(&refreshTokenModel).Error; err != nil {
		log.Printf("Failed to store refresh token: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store refresh token"})
		return
	}

	c.JSON(http.StatusOK, TokenResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    int(auth.AccessTokenExpiry.Seconds()),
		User:         &user,
	})
}

// RefreshToken refreshes an access token using a refresh token.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	var refreshToken model.RefreshToken
	result := h.db.Where("token = ? AND revoked = false AND expires_at > ?", req.RefreshToken, time.Now()).First(&refreshToken)
	if result.Error != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}

	var user model.User
	if err := h.db.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
		return
	}

	accessToken, err := auth.GenerateAccessToken(&user, h.jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate access token"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"accessToken": accessToken,
		"expiresIn":   int(auth.AccessTokenExpiry.Seconds()),
	})
}

// Logout invalidates a refresh token.
func (h *AuthHandler) Logout(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refreshToken" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "refreshToken is required"})
		return
	}

	h.db.Model(&model.RefreshToken{}).Where("token = ?", req.RefreshToken).Update("revoked", true)

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

// Me returns the current user with their admin flag.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var user model.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}

	isAdmin, _ := c.Get("isAdmin")
	c.JSON(http.StatusOK, gin.H{"user": user, "isAdmin": isAdmin})
}

func nameFromEmail(email string) string {
	local := email
	if at := strings.Index(email, "@"); at > 0 {
		local = email[:at]
	}
	parts := strings.FieldsFunc(local, func(r rune) bool { return r == '.' || r == '_' || r == '-' })
	for i, p := range parts {
		if p != "" {
			parts[i] = strings.ToUpper(p[:1]) + p[1:]
		}
	}
	return strings.Join(parts, " ")
}
