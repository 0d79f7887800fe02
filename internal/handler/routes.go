package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/zenops/zen-ops-console/internal/middleware"
	"github.com/zenops/zen-ops-console/internal/models"
)

// Routes groups every console handler with the middleware guarding them.
type Routes struct {
	Auth        *AuthHandler
	Lists       *ListHandler
	Assignments *AssignmentHandler
	MasterData  *MasterDataHandler
	Users       *UserHandler
	Dashboard   *DashboardHandler
	Overview    *OverviewHandler
	Shell       *ShellHandler
	Metrics     *MetricsHandler

	Session      gin.HandlerFunc
	LoginLimiter gin.HandlerFunc
	AuditLogger  *zap.Logger
}

// Register mounts the console API under prefix plus the unprefixed probes.
func (r Routes) Register(engine *gin.Engine, prefix string) {
	engine.GET("/health", r.Metrics.Health)
	engine.GET("/ready", r.Metrics.Ready)
	engine.GET("/metrics", r.Metrics.Prometheus)

	console := engine.Group(prefix)
	if r.Session != nil {
		console.Use(r.Session)
	}

	login := []gin.HandlerFunc{}
	if r.LoginLimiter != nil {
		login = append(login, r.LoginLimiter)
	}
	login = append(login, r.Auth.Login)
	console.POST("/auth/login", login...)
	console.POST("/auth/logout", r.Auth.Logout)
	console.GET("/auth/session", r.Auth.Session)
	console.GET("/shell", r.Shell.Shell)

	secured := console.Group("")
	secured.Use(middleware.RequireSession())
	secured.GET("/auth/me", r.Auth.Me)
	secured.GET("/auth/capabilities", r.Auth.Capabilities)
	secured.POST("/auth/change-password", r.Auth.ChangePassword)

	secured.GET("/account", r.Dashboard.Account)
	secured.GET("/dashboard", r.Dashboard.Dashboard)
	secured.GET("/home", r.Overview.Home)

	secured.GET("/lists", r.Lists.Snapshot)
	secured.POST("/lists/actions", r.Lists.Action)
	secured.GET("/lists/export", r.Lists.Export)

	secured.POST("/assignments", r.Assignments.Create)
	secured.GET("/assignments/:id", r.Assignments.Detail)
	secured.GET("/assignments/:id/activity", r.Assignments.Activity)
	secured.PATCH("/assignments/:id", r.Assignments.Update)

	secured.GET("/banks", r.MasterData.ListBanks)
	secured.GET("/banks/:id", r.MasterData.GetBank)
	secured.GET("/banks/:id/overview", r.Overview.BankOverview)
	secured.GET("/branches", r.MasterData.ListBranches)
	secured.GET("/branches/:id", r.MasterData.GetBranch)
	secured.GET("/clients", r.MasterData.ListClients)
	secured.POST("/clients", r.MasterData.CreateClient)
	secured.GET("/property-types", r.MasterData.ListPropertyTypes)
	secured.GET("/search", r.MasterData.Search)

	admin := secured.Group("")
	admin.Use(middleware.RequireAdmin())
	admin.GET("/workload", r.Dashboard.Workload)
	admin.GET("/system/metrics", r.Metrics.Snapshot)
	admin.POST("/banks", middleware.Audit(r.AuditLogger, "bank.create"), r.MasterData.CreateBank)
	admin.PATCH("/banks/:id", middleware.Audit(r.AuditLogger, "bank.update"), r.MasterData.UpdateBank)
	admin.POST("/branches", middleware.Audit(r.AuditLogger, "branch.create"), r.MasterData.CreateBranch)
	admin.PATCH("/branches/:id", middleware.Audit(r.AuditLogger, "branch.update"), r.MasterData.UpdateBranch)
	admin.POST("/property-types", middleware.Audit(r.AuditLogger, "property_type.create"), r.MasterData.CreatePropertyType)

	staff := secured.Group("/users")
	staff.Use(middleware.RequireRoles(models.RoleAdmin, models.RoleHR, models.RoleOpsManager))
	staff.GET("", r.Users.List)
	staff.POST("", middleware.Audit(r.AuditLogger, "user.create"), r.Users.Create)
	staff.PATCH("/:id", middleware.Audit(r.AuditLogger, "user.update"), r.Users.Update)
	staff.POST("/:id/toggle-active", middleware.Audit(r.AuditLogger, "user.toggle_active"), r.Users.ToggleActive)
	staff.POST("/:id/reset-password", middleware.Audit(r.AuditLogger, "user.reset_password"), r.Users.ResetPassword)
}
