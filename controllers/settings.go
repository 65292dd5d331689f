package controllers

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"garagebill-backend/models"
	"garagebill-backend/store"
	"garagebill-backend/utils"
)

// Images embedded in the company profile are capped at upload time.
const maxImageBytes = 500 * 1000

// SettingsController manages the singleton company profile.
type SettingsController struct {
	store *store.Store
}

func NewSettingsController(st *store.Store) *SettingsController {
	return &SettingsController{store: st}
}

// GetSettings returns the stored profile, or an empty one if the
// settings screen has never been saved.
func (sc *SettingsController) GetSettings(c *gin.Context) {
	profile, err := sc.store.CompanyProfile()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UpdateSettings overwrites the profile wholesale; there is no partial
// update or versioning.
func (sc *SettingsController) UpdateSettings(c *gin.Context) {
	var profile models.CompanyProfile
	if err := c.ShouldBindJSON(&profile); err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid input: "+err.Error())
		return
	}
	if err := sc.store.SaveCompanyProfile(profile); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// UploadImage attaches a logo or QR code to the profile. The raw file
// is capped at 500 KB and stored as a base64 data URI.
func (sc *SettingsController) UploadImage(c *gin.Context) {
	kind := c.Param("kind")
	if kind != "logo" && kind != "qrCode" {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown image kind")
		return
	}

	header, err := c.FormFile("image")
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Image file required")
		return
	}
	if header.Size > maxImageBytes {
		utils.RespondWithError(c, http.StatusBadRequest, "File size should be less than 500KB")
		return
	}

	file, err := header.Open()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read image")
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to read image")
		return
	}

	contentType := http.DetectContentType(raw)
	if contentType != "image/png" && contentType != "image/jpeg" {
		utils.RespondWithError(c, http.StatusBadRequest, "Only PNG and JPEG images are supported")
		return
	}

	dataURI := "data:" + contentType + ";base64," + base64.StdEncoding.EncodeToString(raw)

	profile, err := sc.store.CompanyProfile()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if kind == "logo" {
		profile.Logo = dataURI
	} else {
		profile.QRCode = dataURI
	}
	if err := sc.store.SaveCompanyProfile(profile); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeleteImage removes a logo or QR code from the profile.
func (sc *SettingsController) DeleteImage(c *gin.Context) {
	kind := c.Param("kind")
	if kind != "logo" && kind != "qrCode" {
		utils.RespondWithError(c, http.StatusBadRequest, "Unknown image kind")
		return
	}

	profile, err := sc.store.CompanyProfile()
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to load settings")
		return
	}
	if kind == "logo" {
		profile.Logo = ""
	} else {
		profile.QRCode = ""
	}
	if err := sc.store.SaveCompanyProfile(profile); err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Failed to save settings")
		return
	}
	c.JSON(http.StatusOK, profile)
}
