package api

import (
	"fmt"
	"net/http"
	"time"

	"alcyxob/fitness-ai/internal/service"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ScheduleHandler serves the weekly plan and the session lifecycle
// endpoints (start, complete, skip, swap) plus the meal plan view.
type ScheduleHandler struct {
	planService     service.PlanService
	scheduleService service.ScheduleService
}

// NewScheduleHandler creates a new ScheduleHandler.
func NewScheduleHandler(planService service.PlanService, scheduleService service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{planService: planService, scheduleService: scheduleService}
}

// --- Request/Response Structs ---

type CompleteSessionRequest struct {
	PlanID        string   `json:"planId" binding:"required"`
	RoutineID     string   `json:"routineId" binding:"required"`
	TodayWeightKg *float64 `json:"todayWeightKg" binding:"omitempty,gt=0"`
	Notes         string   `json:"notes"`
}

type SwapRequest struct {
	ScheduleID1 string `json:"scheduleId1" binding:"required"`
	ScheduleID2 string `json:"scheduleId2" binding:"required"`
}

// --- Helpers ---

func authObjectID(c *gin.Context) (primitive.ObjectID, bool) {
	idStr, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, "Invalid user ID in token")
		return primitive.NilObjectID, false
	}
	return id, true
}

func pathObjectID(c *gin.Context, param string) (primitive.ObjectID, bool) {
	idStr := c.Param(param)
	id, err := primitive.ObjectIDFromHex(idStr)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid ID format: %s", idStr))
		return primitive.NilObjectID, false
	}
	return id, true
}

// --- Handler Methods ---

// GetPlan returns the plan covering the requested date (YYYY-MM-DD,
// default today), generating one when none exists.
func (h *ScheduleHandler) GetPlan(c *gin.Context) {
	userID, ok := authObjectID(c)
	if !ok {
		return
	}

	date := time.Now().UTC()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid date format (want YYYY-MM-DD): %s", dateStr))
			return
		}
		date = parsed
	}

	outcome, err := h.planService.GetOrCreatePlanForDate(c.Request.Context(), userID, date)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

// StartSession transitions a pending schedule entry to started.
func (h *ScheduleHandler) StartSession(c *gin.Context) {
	scheduleID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	entry, err := h.scheduleService.StartSession(c.Request.Context(), scheduleID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// CompleteSession completes a started entry, recording the workout in the
// completion history and optionally logging today's weight.
func (h *ScheduleHandler) CompleteSession(c *gin.Context) {
	userID, ok := authObjectID(c)
	if !ok {
		return
	}
	scheduleID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	var req CompleteSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	planID, err := primitive.ObjectIDFromHex(req.PlanID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid plan ID format: %s", req.PlanID))
		return
	}
	routineID, err := primitive.ObjectIDFromHex(req.RoutineID)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid routine ID format: %s", req.RoutineID))
		return
	}

	record, err := h.scheduleService.CompleteSession(c.Request.Context(), service.CompleteSessionParams{
		ScheduleID:    scheduleID,
		UserID:        userID,
		PlanID:        planID,
		RoutineID:     routineID,
		TodayWeightKg: req.TodayWeightKg,
		Notes:         req.Notes,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, record)
}

// SkipSession transitions a pending entry to skipped.
func (h *ScheduleHandler) SkipSession(c *gin.Context) {
	scheduleID, ok := pathObjectID(c, "id")
	if !ok {
		return
	}
	entry, err := h.scheduleService.SkipSession(c.Request.Context(), scheduleID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// SwapRoutines exchanges the routine assignments of two schedule entries.
func (h *ScheduleHandler) SwapRoutines(c *gin.Context) {
	var req SwapRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Validation error: %v", err))
		return
	}
	id1, err := primitive.ObjectIDFromHex(req.ScheduleID1)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid schedule ID format: %s", req.ScheduleID1))
		return
	}
	id2, err := primitive.ObjectIDFromHex(req.ScheduleID2)
	if err != nil {
		abortWithError(c, http.StatusBadRequest, fmt.Sprintf("Invalid schedule ID format: %s", req.ScheduleID2))
		return
	}

	entry1, entry2, err := h.scheduleService.SwapRoutines(c.Request.Context(), id1, id2)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"entries": []interface{}{entry1, entry2}})
}

// GetCurrentMealPlan returns the meal plan attached to the plan covering
// today. The stored blob is already JSON, so it is returned raw.
func (h *ScheduleHandler) GetCurrentMealPlan(c *gin.Context) {
	userID, ok := authObjectID(c)
	if !ok {
		return
	}
	mealJSON, err := h.planService.GetCurrentMealPlan(c.Request.Context(), userID)
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", []byte(mealJSON))
}
