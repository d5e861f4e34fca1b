package api

import (
	"net/http"

	"gympulse/gym-app/internal/domain"
	"gympulse/gym-app/internal/service"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(
	router *gin.Engine,
	jwtSecret string,
	authService service.AuthService,
	trainerService service.TrainerService,
	workoutService service.WorkoutService,
	goalService service.GoalService,
	mediaService service.MediaService,
) {
	authHandler := NewAuthHandler(authService)
	trainerHandler := NewTrainerHandler(trainerService)
	workoutHandler := NewWorkoutHandler(workoutService)
	goalHandler := NewGoalHandler(goalService)
	mediaHandler := NewMediaHandler(mediaService)

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
			role, _ := getUserRoleFromContext(c)
			c.JSON(http.StatusOK, gin.H{"userId": userIDStr, "role": role})
		})

		// --- Trainer Routes ---
		// Require authentication AND the 'trainer' role.
		trainerGroup := protected.Group("/trainer")
		trainerGroup.Use(RoleMiddleware(domain.RoleTrainer))
		{
			trainerGroup.POST("/members", trainerHandler.AddMemberByEmail)
			trainerGroup.GET("/members", trainerHandler.GetManagedMembers)

			// Workout plan authoring
			trainerGroup.POST("/members/:memberId/plans", trainerHandler.CreateWorkoutPlan)
			trainerGroup.GET("/members/:memberId/plans", trainerHandler.GetPlansForMember)
			trainerGroup.PUT("/plans/:planId", trainerHandler.UpdateWorkoutPlan)
			trainerGroup.DELETE("/plans/:planId", trainerHandler.DeleteWorkoutPlan)
		}

		// --- Member Routes ---
		memberGroup := protected.Group("")
		memberGroup.Use(RoleMiddleware(domain.RoleMember))
		{
			// Scheduling and daily progress
			memberGroup.GET("/workouts/today", workoutHandler.GetTodayWorkout)
			memberGroup.GET("/workouts/progress", workoutHandler.GetDailyProgress)
			memberGroup.POST("/workouts/progress/toggle", workoutHandler.ToggleExercise)
			memberGroup.DELETE("/workouts/progress", workoutHandler.ResetDailyProgress)

			// Fitness goals
			memberGroup.GET("/goals", goalHandler.GetGoals)
			memberGroup.PUT("/goals", goalHandler.UpsertGoals)

			// Progress photos
			memberGroup.POST("/photos/upload-url", mediaHandler.RequestUploadURL)
			memberGroup.POST("/photos/confirm", mediaHandler.ConfirmUpload)
			memberGroup.GET("/photos", mediaHandler.GetMyPhotos)
			memberGroup.DELETE("/photos/:photoId", mediaHandler.DeletePhoto)
		}
	}
}
