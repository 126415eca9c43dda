package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yukikurage/kanban-api/internal/dto"
	apierrors "github.com/yukikurage/kanban-api/internal/errors"
	"github.com/yukikurage/kanban-api/internal/services"
)

// ProfileHandler serves the User+Profile view of the principal.
type ProfileHandler struct {
	profileService *services.ProfileService
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// GetProfile returns the principal's profile.
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	user, profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user, *profile))
}

// UpdateProfile applies a partial update from JSON or from a multipart form
// that may carry an avatar file.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	userID, ok := principal(c)
	if !ok {
		return
	}

	var req dto.UpdateProfileRequest
	input := services.UpdateProfileInput{}

	if strings.HasPrefix(c.ContentType(), "multipart/") {
		if err := c.ShouldBind(&req); err != nil {
			apierrors.BadRequest(c, "Invalid form data")
			return
		}

		if fileHeader, err := c.FormFile("avatar"); err == nil {
			file, err := fileHeader.Open()
			if err != nil {
				apierrors.BadRequest(c, "Failed to read avatar")
				return
			}
			defer file.Close()

			input.Avatar = &services.AvatarUpload{
				Filename: fileHeader.Filename,
				Size:     fileHeader.Size,
				Content:  file,
			}
		} else if err != http.ErrMissingFile {
			apierrors.BadRequest(c, "Invalid avatar upload")
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	input.Email = req.Email
	input.FirstName = req.FirstName
	input.LastName = req.LastName
	input.Position = req.Position

	user, profile, err := h.profileService.UpdateProfile(c.Request.Context(), userID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToProfileDTO(*user, *profile))
}
