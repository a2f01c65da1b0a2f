package controllers

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"os"
	"strconv"
	"time"

	"claims-portal-api/config"
	"claims-portal-api/middleware"
	"claims-portal-api/models"
	"claims-portal-api/monitor"
	"claims-portal-api/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
)

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	Token   string      `json:"token"`
	User    models.User `json:"user"`
	Message string      `json:"message"`
}

// Login handles staff authentication
func Login(c *gin.Context) {
	var req LoginRequest

	// Bind request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	monitor.AuthAttemptsCounter.Inc()

	// Find user by email
	var user models.User
	if err := config.DB.Preload("Role").
		Where("email = ? AND delete_at IS NULL AND active = ?", req.Email, true).
		First(&user).Error; err != nil {
		monitor.AuthErrorsCounter.Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Check password
	if !CheckPasswordHash(req.Password, user.Password) {
		monitor.AuthErrorsCounter.Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	// Generate JWT token
	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	// Response
	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		User:    user,
		Message: "Login successful",
	})
}

const (
	emailCodeTTL         = 10 * time.Minute
	emailCodeMaxAttempts = 5
)

func emailCodeKey(email string) string { return "login_code:" + email }

func emailCodeAttempts(email string) string { return "login_code_attempts:" + email }

// RequestEmailCode issues a one-time login code to a staff email. The code
// lives in Redis with a TTL; the response never reveals whether the email
// belongs to an account.
func RequestEmailCode(c *gin.Context) {
	type codeRequest struct {
		Email string `json:"email" binding:"required,email"`
	}

	var req codeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if config.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email-code login is not available"})
		return
	}

	// Look up silently; respond identically either way.
	var user models.User
	err := config.DB.Where("email = ? AND delete_at IS NULL AND active = ?", req.Email, true).
		First(&user).Error
	if err == nil {
		code, genErr := generateEmailCode()
		if genErr == nil {
			ctx := c.Request.Context()
			if setErr := config.Redis.Set(ctx, emailCodeKey(user.Email), code, emailCodeTTL).Err(); setErr == nil {
				config.Redis.Del(ctx, emailCodeAttempts(user.Email))
				go func(email, code string) {
					html := fmt.Sprintf(`<p>Your claims portal login code is <strong>%s</strong>.</p>
<p>It expires in 10 minutes. If you did not request it, ignore this email.</p>`, code)
					if err := config.SendMail([]string{email}, "Your login code", html); err != nil {
						config.LogError(config.GetLogger(), "auth", "RequestEmailCode", "send code email", nil, err)
					}
				}(user.Email, code)
			}
		}
	}

	c.JSON(http.StatusOK, gin.H{"message": "If the email is registered, a login code has been sent"})
}

// VerifyEmailCode exchanges a one-time code for a JWT. Codes are single-use
// and locked out after repeated wrong guesses.
func VerifyEmailCode(c *gin.Context) {
	type verifyRequest struct {
		Email string `json:"email" binding:"required,email"`
		Code  string `json:"code" binding:"required,len=6"`
	}

	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if config.Redis == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Email-code login is not available"})
		return
	}

	monitor.AuthAttemptsCounter.Inc()
	ctx := c.Request.Context()

	attempts, _ := config.Redis.Incr(ctx, emailCodeAttempts(req.Email)).Result()
	config.Redis.Expire(ctx, emailCodeAttempts(req.Email), emailCodeTTL)
	if attempts > emailCodeMaxAttempts {
		monitor.AuthErrorsCounter.Inc()
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Too many attempts, request a new code"})
		return
	}

	// A Redis failure is an outage, not a wrong guess; check it before the
	// code comparison so it cannot masquerade as a 401.
	stored, err := config.Redis.Get(ctx, emailCodeKey(req.Email)).Result()
	if err != nil && err != redis.Nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify code"})
		return
	}
	if err == redis.Nil || stored != req.Code {
		monitor.AuthErrorsCounter.Inc()
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired code"})
		return
	}

	// Single use
	config.Redis.Del(ctx, emailCodeKey(req.Email), emailCodeAttempts(req.Email))

	var user models.User
	if err := config.DB.Preload("Role").
		Where("email = ? AND delete_at IS NULL AND active = ?", req.Email, true).
		First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
		return
	}

	token, err := generateToken(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
		return
	}

	c.JSON(http.StatusOK, LoginResponse{
		Token:   token,
		User:    user,
		Message: "Login successful",
	})
}

// GetProfile returns current user profile
func GetProfile(c *gin.Context) {
	userID, _ := c.Get("userID")

	var user models.User
	if err := config.DB.Preload("Role").
		Where("user_id = ?", userID).
		First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user": user,
	})
}

// ChangePassword handles password change
func ChangePassword(c *gin.Context) {
	type PasswordChangeRequest struct {
		CurrentPassword string `json:"current_password" binding:"required"`
		NewPassword     string `json:"new_password" binding:"required"`
	}

	var req PasswordChangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if ok, msg := utils.ValidatePassword(req.NewPassword); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	userID, _ := c.Get("userID")

	// Get current user
	var user models.User
	if err := config.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	// Verify current password
	if !CheckPasswordHash(req.CurrentPassword, user.Password) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Current password is incorrect"})
		return
	}

	// Update password
	hashed, err := HashPassword(req.NewPassword)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}
	now := time.Now()
	user.Password = hashed
	user.UpdateAt = &now

	if err := config.DB.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Password changed successfully"})
}

// generateToken creates JWT token
func generateToken(user models.User) (string, error) {
	// Get expiration hours from env
	expireHours, err := strconv.Atoi(os.Getenv("JWT_EXPIRE_HOURS"))
	if err != nil {
		expireHours = 24 // default 24 hours
	}

	// Create claims
	claims := middleware.Claims{
		UserID: user.UserID,
		Email:  user.Email,
		RoleID: user.RoleID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Duration(expireHours) * time.Hour)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	// Create token
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	// Sign token
	tokenString, err := token.SignedString([]byte(os.Getenv("JWT_SECRET")))
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// generateEmailCode returns a 6-digit numeric code from crypto/rand.
func generateEmailCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// HashPassword hashes password using bcrypt
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares password with hash
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
