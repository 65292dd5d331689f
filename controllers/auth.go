package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"garagebill-backend/models"
	"garagebill-backend/store"
	"garagebill-backend/utils"
)

// AuthController gates the application behind the single stored
// credential. This is a placeholder gate, not a security boundary.
type AuthController struct {
	store *store.Store
}

func NewAuthController(st *store.Store) *AuthController {
	return &AuthController{store: st}
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type ChangePasswordInput struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required,min=8"`
}

// Login checks the credentials against the stored record (the default
// admin credential is seeded at startup) and issues a session token.
func (a *AuthController) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	cred, found, err := a.store.Credential()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !found || input.Username != cred.Username ||
		!utils.CheckPasswordHash(input.Password, cred.PasswordHash) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Invalid username or password")
		return
	}

	token, err := utils.GenerateToken(cred.Username)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token")
		return
	}

	expiryHours := 24
	maxAge := expiryHours * 3600
	c.SetCookie("token", token, maxAge, "/", "", true, true)

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  gin.H{"username": cred.Username},
	})
}

// ChangePassword overrides the stored credential record.
func (a *AuthController) ChangePassword(c *gin.Context) {
	var input ChangePasswordInput
	if err := c.ShouldBindJSON(&input); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}

	cred, found, err := a.store.Credential()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Database error")
		return
	}
	if !found || !utils.CheckPasswordHash(input.CurrentPassword, cred.PasswordHash) {
		utils.RespondWithError(c, http.StatusUnauthorized, "Current password is incorrect")
		return
	}

	hash, err := utils.HashPassword(input.NewPassword)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}
	if err := a.store.SaveCredential(models.Credential{
		Username:     cred.Username,
		PasswordHash: hash,
	}); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to update password")
		return
	}

	utils.RespondWithMessage(c, http.StatusOK, "Password updated successfully")
}

// Me returns the authenticated username.
func (a *AuthController) Me(c *gin.Context) {
	username, exists := c.Get("username")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "User not found in context")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": gin.H{"username": username}})
}
