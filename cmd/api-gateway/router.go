package main

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-admin-api/internal/handler"
	"github.com/noah-isme/campus-admin-api/internal/middleware"
	"github.com/noah-isme/campus-admin-api/internal/models"
	"github.com/noah-isme/campus-admin-api/pkg/config"
	"github.com/noah-isme/campus-admin-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/campus-admin-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/campus-admin-api/pkg/middleware/requestid"
	"github.com/noah-isme/campus-admin-api/pkg/storage"
)

func newRouter(cfg *config.Config, app *application, localFiles *storage.LocalStorage, checks map[string]handler.ReadinessCheck, logr *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(app.metrics, "/metrics", "/health"))
	r.Use(middleware.WithResponseMeta())

	metricsHandler := handler.NewMetricsHandler(app.metrics, checks)
	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	authHandler := handler.NewAuthHandler(app.auth)
	userHandler := handler.NewUserHandler(app.users)
	importHandler := handler.NewStudentImportHandler(app.imports, cfg.Import.MaxUploadBytes)
	hierarchyHandler := handler.NewHierarchyHandler(app.hierarchy)
	courseHandler := handler.NewCourseHandler(app.courses, app.enrollments, app.assignments)
	contentHandler := handler.NewContentHandler(app.modules, app.assignments)
	attendanceHandler := handler.NewAttendanceHandler(app.attendance)
	classManagerHandler := handler.NewClassManagerHandler(app.classManager)
	notificationHandler := handler.NewNotificationHandler(app.notifier)
	reportHandler := handler.NewReportHandler(app.reports)
	dashboardHandler := handler.NewDashboardHandler(app.dashboard)

	var filesHandler *handler.FilesHandler
	if localFiles != nil {
		filesHandler = handler.NewFilesHandler(localFiles, logr)
	} else {
		filesHandler = handler.NewFilesHandler(nil, logr)
	}

	api := r.Group(cfg.APIPrefix)

	auth := api.Group("/auth")
	auth.POST("/login", authHandler.Login)
	auth.POST("/refresh", authHandler.Refresh)
	auth.POST("/logout", middleware.OptionalJWT(app.auth), authHandler.Logout)

	api.GET("/files/:token", filesHandler.Download)

	secured := api.Group("")
	secured.Use(middleware.JWT(app.auth))

	adminOnly := middleware.RequireRoles(models.RolesAdmin...)
	staff := middleware.RequireRoles(models.RolesStaff...)
	managers := middleware.RequireRoles(models.RolesManagers...)
	audit := func(action, resource string) gin.HandlerFunc {
		return middleware.Audit(app.auditWriter, logr, action, resource)
	}

	secured.GET("/hierarchy", hierarchyHandler.Tree)
	secured.GET("/hierarchy/flat", hierarchyHandler.Flat)
	secured.POST("/colleges", adminOnly, hierarchyHandler.CreateCollege)
	secured.POST("/departments", adminOnly, hierarchyHandler.CreateDepartment)
	secured.POST("/programs", adminOnly, hierarchyHandler.CreateProgram)
	secured.POST("/academic-years", adminOnly, hierarchyHandler.CreateAcademicYear)
	secured.POST("/semesters", adminOnly, hierarchyHandler.CreateSemester)
	secured.POST("/sections", adminOnly, hierarchyHandler.CreateSection)
	secured.GET("/sections/:id", middleware.RequireRoles(models.RolesDirectory...), hierarchyHandler.Section)
	secured.PUT("/sections/:id/courses", adminOnly, hierarchyHandler.UpdateSectionCourses)
	secured.POST("/sections/:id/students/bulk", adminOnly, importHandler.BulkText)

	users := secured.Group("/users", adminOnly)
	users.GET("", userHandler.List)
	users.POST("", userHandler.Create)
	users.PUT("/:id", userHandler.Update)
	users.DELETE("/:id", userHandler.Delete)

	secured.GET("/me", userHandler.Me)
	secured.PUT("/me/profile", userHandler.UpdateProfile)

	secured.GET("/students", middleware.RequireRoles(models.RolesDirectory...), userHandler.ListStudents)
	secured.GET("/students/template", adminOnly, importHandler.Template)
	secured.POST("/students/import", adminOnly, importHandler.Import)

	courses := secured.Group("/courses")
	courses.GET("", courseHandler.List)
	courses.POST("", staff, courseHandler.Create)
	courses.GET("/browse", courseHandler.Browse)
	courses.GET("/mine", middleware.RequireRoles(models.RoleStudent), courseHandler.Mine)
	courses.GET("/:id", courseHandler.Get)
	courses.PUT("/:id", staff, courseHandler.Update)
	courses.DELETE("/:id", staff, courseHandler.Delete)
	courses.POST("/:id/enroll", courseHandler.Enroll)
	courses.DELETE("/:id/enrollments/:studentId", courseHandler.Unenroll)
	courses.GET("/:id/roster", courseHandler.Roster)
	courses.GET("/:id/gradebook", staff, courseHandler.Gradebook)
	courses.POST("/:id/modules", staff, contentHandler.CreateModule)
	courses.POST("/:id/assignments", staff, contentHandler.CreateAssignment)
	courses.GET("/:id/attendance-sessions", staff, attendanceHandler.ListSessions)
	courses.POST("/:id/attendance-sessions", staff, attendanceHandler.CreateSession)

	secured.DELETE("/modules/:id", staff, contentHandler.DeleteModule)
	secured.DELETE("/assignments/:id", staff, contentHandler.DeleteAssignment)
	secured.POST("/assignments/:id/submissions", middleware.RequireRoles(models.RoleStudent), contentHandler.Submit)
	secured.PUT("/submissions/:id/grade", staff, contentHandler.Grade)

	sessions := secured.Group("/attendance-sessions", staff)
	sessions.GET("/:id", attendanceHandler.GetSession)
	sessions.DELETE("/:id", audit(models.AuditActionSessionDelete, models.AuditResourceAttendanceSession), attendanceHandler.DeleteSession)
	sessions.PUT("/:id/records", audit(models.AuditActionAttendanceSave, models.AuditResourceAttendanceSession), attendanceHandler.SaveRecords)

	classManager := secured.Group("/class-manager", managers)
	classManager.GET("/dashboard", classManagerHandler.Dashboard)
	classManager.GET("/live", classManagerHandler.LiveClasses)
	classManager.GET("/courses", classManagerHandler.Courses)
	classManager.POST("/attendance", audit(models.AuditActionTeacherMark, models.AuditResourceTeacherAttendance), classManagerHandler.MarkAttendance)

	notifications := secured.Group("/notifications")
	notifications.GET("", notificationHandler.List)
	notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
	notifications.PUT("/:id/read", notificationHandler.MarkAsRead)

	reports := secured.Group("/reports")
	reports.GET("/saved", reportHandler.SavedReports)
	reports.POST("/saved", reportHandler.SaveReport)
	reports.DELETE("/saved/:id", reportHandler.DeleteSavedReport)
	reports.GET("/student-attendance", managers, reportHandler.StudentAttendance)
	reports.GET("/teacher-attendance", managers, reportHandler.TeacherAttendance)
	reports.GET("/enrollment", managers, reportHandler.Enrollment)
	reports.GET("/departments", managers, reportHandler.Departments)
	reports.GET("/:type/export", managers, reportHandler.Export)

	dashboard := secured.Group("/dashboard", adminOnly)
	dashboard.GET("/stats", dashboardHandler.Stats)
	dashboard.GET("/enrollment-chart", dashboardHandler.EnrollmentChart)
	dashboard.GET("/attendance-trends", dashboardHandler.AttendanceTrends)
	dashboard.GET("/recent-activity", dashboardHandler.RecentActivity)
	dashboard.GET("/system", dashboardHandler.System)

	return r
}
