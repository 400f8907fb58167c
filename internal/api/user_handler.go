package api

import (
	"fmt"
	"net/http"

	"alcyxob/fitness-ai/internal/domain"
	"alcyxob/fitness-ai/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserHandler serves profile, health profile, goal and stats endpoints.
type UserHandler struct {
	userService  service.UserService
	statsService service.StatsService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(userService service.UserService, statsService service.StatsService) *UserHandler {
	return &UserHandler{userService: userService, statsService: statsService}
}

// --- Request/Response Structs ---

type UpdateBasicInfoRequest struct {
	FullName        string   `json:"fullName"`
	Gender          string   `json:"gender" binding:"omitempty,oneof=male female other"`
	Age             int      `json:"age" binding:"omitempty,gte=13,lte=120"`
	HeightCm        *float64 `json:"heightCm" binding:"omitempty,gt=0"`
	WeightKg        *float64 `json:"weightKg" binding:"omitempty,gt=0"`
	ExperienceLevel string   `json:"experienceLevel" binding:"omitempty,oneof=beginner intermediate advanced"`
}

type HealthProfileRequest struct {
	IsSmoker            bool     `json:"isSmoker"`
	PreExistingDiseases []string `json:"preExistingDiseases"`
	CurrentMedications  []string `json:"currentMedications"`
	HealthIssues        []string `json:"healthIssues"`
	PhysicalLimitations []string `json:"physicalLimitations"`
}

type SetGoalRequest struct {
	GoalType            string   `json:"goalType" binding:"required,oneof=weight_loss weight_gain muscle_gain weight_loss_with_muscle_gain"`
	WorkoutDaysPerWeek  int      `json:"workoutDaysPerWeek" binding:"required,gte=1,lte=7"`
	TargetWeightKg      *float64 `json:"targetWeightKg" binding:"omitempty,gt=0"`
	TargetDurationWeeks int      `json:"targetDurationWeeks" binding:"omitempty,gte=1"`
	Equipment           string   `json:"equipment" binding:"omitempty,oneof=NoEquipment DumbbellsOnly FullGymEquipment"`
	Remarks             string   `json:"remarks"`
}

// ProfileResponse is the user profile merged with derived stats.
type ProfileResponse struct {
	User  UserResponse       `json:"user"`
	Stats *service.UserStats `json:"stats,omitempty"`
}

// --- Handler Methods ---

// pathUserID parses the :id path param and rejects requests for a user
// other than the authenticated one.
func pathUserID(c *gin.Context) (primitive.ObjectID, bool) {
	authID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	idStr := c.Param("id")
	if idStr != authID {
		abortWithError(c, http.StatusForbidden, "Cannot access another user's data")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid user ID format: %s", idStr))
		return primitive.NilObjectID, false
	}
	return id, true
}

// GetProfile returns the user's profile together with derived stats
// (goal set, live streak, missed-yesterday).
func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}

	user, err := h.userService.GetUser(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	stats, err := h.statsService.ComputeStats(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, ProfileResponse{User: MapUserToResponse(user), Stats: stats})
}

// UpdateBasicInfo updates the editable profile fields.
func (h *UserHandler) UpdateBasicInfo(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	var req UpdateBasicInfoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	user, err := h.userService.UpdateBasicInfo(c.Request.Context(), userID, service.UpdateBasicInfoParams{
		FullName:        req.FullName,
		Gender:          req.Gender,
		Age:             req.Age,
		HeightCm:        req.HeightCm,
		WeightKg:        req.WeightKg,
		ExperienceLevel: domain.ExperienceLevel(req.ExperienceLevel),
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, MapUserToResponse(user))
}

// UpsertHealthProfile creates or replaces the user's health profile.
func (h *UserHandler) UpsertHealthProfile(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	var req HealthProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	profile, err := h.userService.UpsertHealthProfile(c.Request.Context(), &domain.HealthProfile{
		UserID:              userID,
		IsSmoker:            req.IsSmoker,
		PreExistingDiseases: req.PreExistingDiseases,
		CurrentMedications:  req.CurrentMedications,
		HealthIssues:        req.HealthIssues,
		PhysicalLimitations: req.PhysicalLimitations,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// GetHealthProfile returns the user's health profile.
func (h *UserHandler) GetHealthProfile(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	profile, err := h.userService.GetHealthProfile(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SetGoal sets a new active training goal, deactivating the prior one.
func (h *UserHandler) SetGoal(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	var req SetGoalRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}

	goal, err := h.userService.SetGoal(c.Request.Context(), userID, service.SetGoalParams{
		GoalType:            domain.GoalType(req.GoalType),
		WorkoutDaysPerWeek:  req.WorkoutDaysPerWeek,
		TargetWeightKg:      req.TargetWeightKg,
		TargetDurationWeeks: req.TargetDurationWeeks,
		Equipment:           domain.WorkoutEquipment(req.Equipment),
		Remarks:             req.Remarks,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, goal)
}

// GetActiveGoal returns the user's active goal.
func (h *UserHandler) GetActiveGoal(c *gin.Context) {
	userID, ok := pathUserID(c)
	if !ok {
		return
	}
	goal, err := h.userService.GetActiveGoal(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, goal)
}
