package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/shestakov-dev/ClassCompassServer/internal/middleware"
	"github.com/shestakov-dev/ClassCompassServer/internal/models"
	"github.com/shestakov-dev/ClassCompassServer/internal/service"
)

// Handlers bundles every HTTP handler for route registration.
type Handlers struct {
	Auth           *AuthHandler
	Users          *UserHandler
	Schools        *SchoolHandler
	Buildings      *BuildingHandler
	Floors         *FloorHandler
	Rooms          *RoomHandler
	Classes        *ClassHandler
	DailySchedules *DailyScheduleHandler
	Subjects       *SubjectHandler
	Teachers       *TeacherHandler
	Students       *StudentHandler
	Lessons        *LessonHandler
	Metrics        *MetricsHandler
}

// RegisterRoutes mounts the API under the given prefix. Reads are open to
// all authenticated roles; writes require an administrative role.
func RegisterRoutes(r *gin.Engine, prefix string, h Handlers, auth *service.AuthService) {
	admin := middleware.RequireRoles(models.RoleSuperAdmin, models.RoleAdmin)
	superadmin := middleware.RequireRoles(models.RoleSuperAdmin)

	api := r.Group(prefix)

	api.POST("/auth/login", h.Auth.Login)
	api.POST("/auth/refresh", h.Auth.Refresh)

	authed := api.Group("", middleware.JWT(auth))
	{
		authed.POST("/auth/logout", h.Auth.Logout)
		authed.PUT("/auth/password", h.Auth.ChangePassword)
		authed.GET("/auth/me", h.Auth.Me)

		authed.GET("/users", admin, h.Users.List)
		authed.GET("/users/:id", middleware.RBAC("SUPERADMIN", "ADMIN", "SELF"), h.Users.Get)
		authed.POST("/users", superadmin, h.Users.Create)
		authed.PUT("/users/:id", superadmin, h.Users.Update)
		authed.DELETE("/users/:id", superadmin, h.Users.Deactivate)

		authed.GET("/schools", h.Schools.List)
		authed.GET("/schools/:schoolId", h.Schools.Get)
		authed.POST("/schools", superadmin, h.Schools.Create)
		authed.PUT("/schools/:schoolId", superadmin, h.Schools.Update)
		authed.DELETE("/schools/:schoolId", superadmin, h.Schools.Delete)

		authed.GET("/schools/:schoolId/buildings", h.Buildings.ListBySchool)
		authed.GET("/buildings/:id", h.Buildings.Get)
		authed.POST("/buildings", admin, h.Buildings.Create)
		authed.PUT("/buildings/:id", admin, h.Buildings.Update)
		authed.DELETE("/buildings/:id", admin, h.Buildings.Delete)

		authed.GET("/buildings/:id/floors", h.Floors.ListByBuilding)
		authed.GET("/floors/:id", h.Floors.Get)
		authed.POST("/floors", admin, h.Floors.Create)
		authed.PUT("/floors/:id", admin, h.Floors.Update)
		authed.DELETE("/floors/:id", admin, h.Floors.Delete)
		authed.GET("/floors/:id/plan", h.Floors.PlanURL)
		authed.PUT("/floors/:id/plan", admin, h.Floors.UploadPlan)
		authed.DELETE("/floors/:id/plan", admin, h.Floors.DeletePlan)

		authed.GET("/floors/:id/rooms", h.Rooms.ListByFloor)
		authed.GET("/rooms/:id", h.Rooms.Get)
		authed.POST("/rooms", admin, h.Rooms.Create)
		authed.PUT("/rooms/:id", admin, h.Rooms.Update)
		authed.DELETE("/rooms/:id", admin, h.Rooms.Delete)

		authed.GET("/schools/:schoolId/classes", h.Classes.ListBySchool)
		authed.GET("/classes/:id", h.Classes.Get)
		authed.POST("/classes", admin, h.Classes.Create)
		authed.PUT("/classes/:id", admin, h.Classes.Update)
		authed.DELETE("/classes/:id", admin, h.Classes.Delete)
		authed.GET("/classes/:id/timetable/export", h.Classes.ExportTimetable)

		authed.GET("/classes/:id/daily-schedules", h.DailySchedules.ListByClass)
		authed.GET("/daily-schedules/:id", h.DailySchedules.Get)
		authed.POST("/daily-schedules", admin, h.DailySchedules.Create)
		authed.PUT("/daily-schedules/:id", admin, h.DailySchedules.Update)
		authed.DELETE("/daily-schedules/:id", admin, h.DailySchedules.Delete)

		authed.GET("/schools/:schoolId/subjects", h.Subjects.ListBySchool)
		authed.GET("/subjects/:id", h.Subjects.Get)
		authed.POST("/subjects", admin, h.Subjects.Create)
		authed.PUT("/subjects/:id", admin, h.Subjects.Update)
		authed.DELETE("/subjects/:id", admin, h.Subjects.Delete)

		authed.GET("/schools/:schoolId/teachers", h.Teachers.ListBySchool)
		authed.GET("/teachers/:id", h.Teachers.Get)
		authed.POST("/teachers", admin, h.Teachers.Create)
		authed.PUT("/teachers/:id", admin, h.Teachers.Update)
		authed.DELETE("/teachers/:id", admin, h.Teachers.Delete)
		authed.GET("/teachers/:id/subjects", h.Teachers.ListSubjects)
		authed.PUT("/teachers/:id/subjects/:subjectId", admin, h.Teachers.AssignSubject)
		authed.DELETE("/teachers/:id/subjects/:subjectId", admin, h.Teachers.UnassignSubject)

		authed.GET("/classes/:id/students", h.Students.ListByClass)
		authed.GET("/students/:id", h.Students.Get)
		authed.POST("/students", admin, h.Students.Create)
		authed.PUT("/students/:id", admin, h.Students.Update)
		authed.DELETE("/students/:id", admin, h.Students.Delete)

		authed.GET("/schools/:schoolId/lessons/active", h.Lessons.Active)
		authed.GET("/daily-schedules/:id/lessons", h.Lessons.ListByDailySchedule)
		authed.GET("/lessons/:id", h.Lessons.Get)
		authed.POST("/lessons", admin, h.Lessons.Create)
		authed.PATCH("/lessons/:id", admin, h.Lessons.Update)
		authed.DELETE("/lessons/:id", admin, h.Lessons.Delete)

		authed.GET("/status", admin, h.Metrics.Status)
	}

	r.GET("/metrics", h.Metrics.Prometheus)
}
