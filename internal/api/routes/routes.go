package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yoockh/placementcell/internal/api/handlers"
	"github.com/yoockh/placementcell/internal/api/middleware"
	"github.com/yoockh/placementcell/internal/security"
)

type Deps struct {
	StudentTokens *security.TokenManager
	AdminTokens   *security.TokenManager

	// Limiter throttles the auth endpoints; nil disables it.
	Limiter        middleware.Limiter
	AuthRateLimit  int
	AuthRateWindow time.Duration

	Auth         *handlers.AuthHandler
	Jobs         *handlers.JobHandler
	Applications *handlers.ApplicationHandler
	Resumes      *handlers.ResumeHandler
	Students     *handlers.StudentHandler
	Dashboard    *handlers.DashboardHandler
	Events       *handlers.EventHandler
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	limit := middleware.RateLimit(d.Limiter, "auth", d.AuthRateLimit, d.AuthRateWindow)

	// Student portal
	student := r.Group("/student")
	student.POST("/auth/signup", limit, d.Auth.StudentSignup)
	student.POST("/auth/signin", limit, d.Auth.StudentSignin)

	st := student.Group("")
	st.Use(middleware.JWTAuth(d.StudentTokens), middleware.RequireStudent())

	st.GET("/dashboard", d.Dashboard.Get)

	st.GET("/jobs", d.Jobs.StudentList)
	st.GET("/jobs/:id", d.Jobs.StudentGet)
	st.POST("/jobs/:id/apply", d.Jobs.Apply)

	st.GET("/applications", d.Applications.List)
	st.GET("/applications/stats", d.Applications.Stats)
	st.GET("/applications/:id", d.Applications.Get)
	st.PATCH("/applications/:id/resume", d.Applications.ReassignResume)

	st.GET("/resumes", d.Resumes.List)
	st.POST("/resumes/upload", d.Resumes.Upload)
	st.GET("/resumes/:id/download", d.Resumes.Download)
	st.DELETE("/resumes/:id", d.Resumes.Delete)

	st.GET("/events", d.Events.Upcoming)

	info := st.Group("/my-information")
	info.GET("/profile", d.Students.GetProfile)
	info.PUT("/profile", d.Students.UpdateProfile)
	info.GET("/personal", d.Students.GetPersonal)
	info.PUT("/personal", d.Students.UpdatePersonal)
	info.GET("/academic", d.Students.GetAcademic)
	info.PUT("/academic", d.Students.UpdateAcademic)
	info.GET("/skills", d.Students.GetSkills)
	info.PUT("/skills", d.Students.ReplaceSkills)
	info.POST("/skills", d.Students.AddSkill)
	info.DELETE("/skills/:id", d.Students.DeleteSkill)

	// Placement cell
	cell := r.Group("/placement-cell")
	cell.POST("/auth/login", limit, d.Auth.AdminLogin)

	adm := cell.Group("")
	adm.Use(middleware.JWTAuth(d.AdminTokens), middleware.RequireAdmin())

	adm.POST("/jobs", d.Jobs.Create)
	adm.GET("/jobs", d.Jobs.List)
	adm.GET("/jobs/:id", d.Jobs.Get)
	adm.PATCH("/jobs/:id", d.Jobs.Update)
	adm.PATCH("/jobs/:id/status", d.Jobs.UpdateStatus)
	adm.DELETE("/jobs/:id", d.Jobs.Delete)
	adm.GET("/jobs/:id/applications", d.Applications.ListForJob)
	adm.GET("/jobs/:id/applications/export", d.Applications.ExportForJob)

	adm.PATCH("/applications/:id/status", d.Applications.UpdateStatus)

	adm.GET("/students", d.Students.List)
	adm.GET("/students/export", d.Students.Export)
	adm.GET("/students/:id", d.Students.Get)
	adm.PATCH("/students/:id/status", d.Students.SetStatus)

	adm.POST("/events", d.Events.Create)
	adm.GET("/events", d.Events.List)
	adm.PATCH("/events/:id", d.Events.Update)
	adm.DELETE("/events/:id", d.Events.Delete)
}
