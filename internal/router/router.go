package router

import (
	"time"

	"github.com/defectrack/defectrack/internal/handlers"
	"github.com/defectrack/defectrack/internal/middleware"
	"github.com/defectrack/defectrack/internal/types"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func NewRouter(allowedOrigins []string) *gin.Engine {
	r := gin.Default()

	r.Use(middleware.RequestID())

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	admin := middleware.RequireRole(types.RoleAdmin)
	manager := middleware.RequireRole(types.RoleManager)
	engineer := middleware.RequireRole(types.RoleEngineer)
	supervisor := middleware.RequireRole(types.RoleAdmin, types.RoleManager)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.RegisterUser)
			auth.POST("/token", handlers.IssueToken)
			auth.GET("/users/me", middleware.AuthMiddleware(), handlers.Me)
		}

		companies := api.Group("/company", middleware.AuthMiddleware())
		{
			companies.POST("/create", admin, handlers.CreateCompany)
			companies.GET("/all", admin, handlers.ListCompanies)
			companies.GET("/my-companies", handlers.GetCompany)
			companies.DELETE("/:company_id", admin, handlers.DeleteCompany)
			companies.POST("/:company_id/users", admin, handlers.AddCompanyUser)
			companies.DELETE("/:company_id/users/:user_id", admin, handlers.RemoveCompanyUser)
		}

		projects := api.Group("/project", middleware.AuthMiddleware())
		{
			projects.POST("", manager, handlers.CreateProject)
			projects.DELETE("/:project_id", manager, handlers.DeleteProject)
			projects.GET("/my-projects", manager, handlers.ListProjects)
			projects.GET("/my-projects/:project_id", manager, handlers.GetProject)

			// Roster and manager endpoints
			projects.PATCH("/:project_id/assign-manager", supervisor, handlers.AssignProjectManager)
			projects.DELETE("/:project_id/manager", supervisor, handlers.RemoveProjectManager)
			projects.POST("/:project_id/engineers", supervisor, handlers.AddProjectEngineers)
			projects.DELETE("/:project_id/engineers", supervisor, handlers.RemoveProjectEngineers)
		}

		defects := api.Group("/defect", middleware.AuthMiddleware())
		{
			defects.POST("", engineer, handlers.CreateDefect)
			defects.DELETE("/:defect_id", engineer, handlers.DeleteDefect)
			defects.GET("/my-defects", engineer, handlers.ListDefects)
			defects.GET("/my-defects/:defect_id", engineer, handlers.GetDefect)

			defects.DELETE("/:defect_id/remove-engineer", supervisor, handlers.RemoveDefectEngineer)
			defects.PATCH("/defects/:defect_id/assign-engineer", supervisor, handlers.AssignDefectEngineer)
		}
	}

	return r
}
