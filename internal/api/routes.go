package api

import (
	"net/http"

	"alcyxob/fitness-ai/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	userService service.UserService,
	statsService service.StatsService,
	planService service.PlanService,
	scheduleService service.ScheduleService,
) {
	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(userService, statsService)
	scheduleHandler := NewScheduleHandler(planService, scheduleService)

	router.Use(RequestIDMiddleware())
	authMiddleware := AuthMiddleware(jwtSecret)

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	apiV1 := router.Group("/api/v1")
	{
		authGroup := apiV1.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
		}
	}

	protected := apiV1.Group("")
	protected.Use(authMiddleware)
	{
		protected.GET("/me", func(c *gin.Context) {
			userIDStr, err := getUserIDFromContext(c)
			if err != nil {
				abortWithError(c, http.StatusInternalServerError, "Failed to get user ID from token")
				return
			}
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr})
		})

		userGroup := protected.Group("/users/:id")
		{
			userGroup.GET("", userHandler.GetProfile)
			userGroup.POST("/basic-info", userHandler.UpdateBasicInfo)
			userGroup.GET("/health-profile", userHandler.GetHealthProfile)
			userGroup.POST("/health-profile", userHandler.UpsertHealthProfile)
			userGroup.GET("/goal", userHandler.GetActiveGoal)
			userGroup.POST("/goal", userHandler.SetGoal)
		}

		scheduleGroup := protected.Group("/schedule")
		{
			// GET /api/v1/schedule/plan?date=YYYY-MM-DD
			scheduleGroup.GET("/plan", scheduleHandler.GetPlan)
			scheduleGroup.POST("/session/:id/start", scheduleHandler.StartSession)
			scheduleGroup.POST("/session/:id/complete", scheduleHandler.CompleteSession)
			scheduleGroup.POST("/session/:id/skip", scheduleHandler.SkipSession)
			scheduleGroup.POST("/swap", scheduleHandler.SwapRoutines)
		}

		protected.GET("/meals/current", scheduleHandler.GetCurrentMealPlan)
	}
}
