package handlers

import (
	"github.com/gin-gonic/gin"

	"user-task-api/internal/bootstrap"
	"user-task-api/internal/middleware"
	"user-task-api/internal/repository"
	"user-task-api/internal/services"
)

// NewRouter wires repositories, services, handlers and middleware into a
// ready-to-serve engine.
func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(app.Log),
		gin.Recovery(),
	)

	userRepo := repository.NewUserRepository(app.DB)
	taskRepo := repository.NewTaskRepository(app.DB)

	userService := services.NewUserService(userRepo, app.Config.App.UserDeletePolicy)
	taskService := services.NewTaskService(taskRepo, userRepo)

	userHandler := NewUserHandler(userService, taskService, app.Log)
	taskHandler := NewTaskHandler(taskService, app.Log)
	healthHandler := NewHealthHandler(app.DB, app.Config.App.Name, app.StartedAt)

	registerRoutes(router, userHandler, taskHandler, healthHandler)

	return router
}

func registerRoutes(router *gin.Engine, users *UserHandler, tasks *TaskHandler, health *HealthHandler) {
	router.GET("/health", health.Check)

	userRoutes := router.Group("/users")
	{
		userRoutes.GET("", users.ListUsers)
		userRoutes.POST("", users.CreateUser)
		userRoutes.GET("/:id", users.GetUser)
		userRoutes.PUT("/:id", users.UpdateUser)
		userRoutes.DELETE("/:id", users.DeleteUser)
		userRoutes.GET("/:id/tasks", users.ListUserTasks)
	}

	taskRoutes := router.Group("/tasks")
	{
		taskRoutes.GET("", tasks.ListTasks)
		taskRoutes.POST("", tasks.CreateTask)
		taskRoutes.GET("/:id", tasks.GetTask)
		taskRoutes.PUT("/:id", tasks.UpdateTask)
		taskRoutes.DELETE("/:id", tasks.DeleteTask)
	}
}
