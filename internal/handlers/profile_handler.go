package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "fintrack/internal/errors"
	"fintrack/internal/services"
)

// ProfileHandler handles finance-profile requests.
type ProfileHandler struct {
	profileService services.ProfileServicer
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(profileService services.ProfileServicer) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// SaveProfileRequest represents the full profile payload. Saves replace
// the profile wholesale; omitted fields are cleared.
type SaveProfileRequest struct {
	Name                 string  `json:"name" binding:"max=100"`
	MonthlySalary        float64 `json:"monthly_salary" binding:"omitempty,gte=0"`
	FinancialGoals       string  `json:"financial_goals" binding:"max=1000"`
	Bio                  string  `json:"bio" binding:"max=1000"`
	AvatarURL            string  `json:"avatar_url" binding:"omitempty,max=500"`
	CreditCardClosingDay *int    `json:"credit_card_closing_day" binding:"omitempty,day_of_month"`
	CreditCardDueDay     *int    `json:"credit_card_due_day" binding:"omitempty,day_of_month"`
}

// GetProfile returns the user's finance profile
// @Summary     Get finance profile
// @Description Get the authenticated user's finance profile
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} models.Profile "Finance profile"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     404 {object} ErrorResponse "Profile not saved yet"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [get]
func (h *ProfileHandler) GetProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	profile, err := h.profileService.GetProfile(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// SaveProfile creates or replaces the user's finance profile
// @Summary     Save finance profile
// @Description Create or replace the authenticated user's finance profile
// @Tags        profile
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body SaveProfileRequest true "Profile payload"
// @Success     200 {object} models.Profile "Saved profile"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Failure     500 {object} ErrorResponse "Server error"
// @Router      /profile [put]
func (h *ProfileHandler) SaveProfile(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req SaveProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apperrors.WithMessage(apperrors.ErrInvalidInput, err.Error()))
		return
	}

	profile, err := h.profileService.UpsertProfile(userID, services.ProfileInput{
		Name:                 req.Name,
		MonthlySalary:        req.MonthlySalary,
		FinancialGoals:       req.FinancialGoals,
		Bio:                  req.Bio,
		AvatarURL:            req.AvatarURL,
		CreditCardClosingDay: req.CreditCardClosingDay,
		CreditCardDueDay:     req.CreditCardDueDay,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"profile": profile})
}
