package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/clinicore/hospital-portal/internal/audit"
	"github.com/clinicore/hospital-portal/internal/handlers"
	infraRepo "github.com/clinicore/hospital-portal/internal/infra/repository"
	"github.com/clinicore/hospital-portal/internal/logger"
	"github.com/clinicore/hospital-portal/internal/middleware"
	"github.com/clinicore/hospital-portal/internal/rbac"
	"github.com/clinicore/hospital-portal/internal/roles"
	"github.com/clinicore/hospital-portal/internal/sessions"
	ucAppointment "github.com/clinicore/hospital-portal/internal/usecase/appointment"
)

// Per-page allow-lists. Each page names every role it accepts; there is
// no wildcard and no hierarchy, so granting a new role to a page means
// adding it here.
var (
	adminRoles     = []roles.Role{roles.AdminSys, roles.GeneralDoctor}
	doctorRoles    = []roles.Role{roles.Doctor, roles.GeneralDoctor}
	nurseRoles     = []roles.Role{roles.Nurse, roles.GeneralDoctor}
	secretaryRoles = []roles.Role{roles.Secretary, roles.AdminSys, roles.GeneralDoctor}

	clinicalRoles = []roles.Role{roles.Doctor, roles.Nurse, roles.GeneralDoctor}

	patientRoles = []roles.Role{
		roles.AdminSys, roles.GeneralDoctor, roles.Doctor, roles.Nurse, roles.Secretary,
	}

	appointmentRoles = []roles.Role{
		roles.AdminSys, roles.GeneralDoctor, roles.Doctor, roles.Secretary,
	}
)

func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	sessionManager *sessions.Manager,
	auditDispatcher *audit.Dispatcher,
	archiver *audit.Archiver,
) {

	// ======================================================
	// GLOBAL MIDDLEWARE
	// ======================================================
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestLogging())
	r.Use(middleware.Identity(sessionManager))

	// ======================================================
	// INFRA (SINGLETONS)
	// ======================================================
	appointmentRepo := infraRepo.NewAppointmentGormRepository(db)

	auditStore := audit.NewStore(db)

	resolver := rbac.NewResolver(rbac.NewGormProfileStore(db))
	guard := rbac.NewGuard(resolver, logger.Get())

	// ======================================================
	// USE CASES - APPOINTMENTS
	// ======================================================
	scheduleAppointmentUC := ucAppointment.NewScheduleAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	cancelAppointmentUC := ucAppointment.NewCancelAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	completeAppointmentUC := ucAppointment.NewCompleteAppointment(
		appointmentRepo,
		auditDispatcher,
	)

	listAppointmentsByDateUC := ucAppointment.NewListAppointmentsByDate(
		appointmentRepo,
	)

	listAppointmentsByPatientUC := ucAppointment.NewListAppointmentsByPatient(
		appointmentRepo,
	)

	// ======================================================
	// HANDLERS
	// ======================================================
	authHandler := handlers.NewAuthHandler(db, sessionManager, resolver, auditDispatcher)
	meHandler := handlers.NewMeHandler(db)
	dashboardHandler := handlers.NewDashboardHandler(db, resolver)

	staffHandler := handlers.NewStaffHandler(db, auditDispatcher)
	centreHandler := handlers.NewCentreHandler(db, auditDispatcher)
	patientHandler := handlers.NewPatientHandler(db, auditDispatcher)

	appointmentHandler := handlers.NewAppointmentHandler(
		scheduleAppointmentUC,
		cancelAppointmentUC,
		completeAppointmentUC,
		listAppointmentsByDateUC,
		listAppointmentsByPatientUC,
	)

	consultationHandler := handlers.NewConsultationHandler(db, auditDispatcher)
	hospitalizationHandler := handlers.NewHospitalizationHandler(db, auditDispatcher)
	emergencyHandler := handlers.NewEmergencyHandler(db, auditDispatcher)
	prescriptionHandler := handlers.NewPrescriptionHandler(db, auditDispatcher)

	auditLogsHandler := handlers.NewAuditLogsHandler(auditStore, archiver)

	// ======================================================
	// WEB PAGES (redirect on denial)
	// ======================================================
	r.GET(rbac.LoginRoute, authHandler.LoginPage)

	r.GET("/dashboard", dashboardHandler.Route)

	r.GET(rbac.DefaultFallbackRoute, requireSignIn, dashboardHandler.Protected)

	r.GET("/admin",
		middleware.RequireAnyRole(guard, "", adminRoles...),
		dashboardHandler.Admin,
	)
	r.GET("/medical",
		middleware.RequireAnyRole(guard, "", doctorRoles...),
		dashboardHandler.Medical,
	)
	r.GET("/nurse",
		middleware.RequireAnyRole(guard, "", nurseRoles...),
		dashboardHandler.Nurse,
	)
	r.GET("/secretary",
		middleware.RequireAnyRole(guard, "", secretaryRoles...),
		dashboardHandler.Secretary,
	)

	// ======================================================
	// API (JSON, status codes on denial)
	// ======================================================
	api := r.Group("/api")
	{
		// ------------------------------
		// AUTH
		// ------------------------------
		api.POST("/auth/login", authHandler.Login)
		api.POST("/auth/logout", authHandler.Logout)

		api.GET("/me", meHandler.GetMe)

		// ------------------------------
		// ADMINISTRATION
		// ------------------------------
		admin := api.Group("/")
		admin.Use(middleware.RequireAnyRoleJSON(guard, adminRoles...))
		{
			admin.GET("/staff", staffHandler.List)
			admin.GET("/staff/:id", staffHandler.Get)
			admin.POST("/staff", staffHandler.Create)
			admin.PATCH("/staff/:id", staffHandler.Update)
			admin.DELETE("/staff/:id", staffHandler.Delete)

			admin.GET("/centres", centreHandler.List)
			admin.GET("/centres/:id", centreHandler.Get)
			admin.POST("/centres", centreHandler.Create)
			admin.PATCH("/centres/:id", centreHandler.Update)
			admin.DELETE("/centres/:id", centreHandler.Delete)

			admin.GET("/audit-logs", auditLogsHandler.List)
			admin.POST("/audit-logs/export", auditLogsHandler.Export)
		}

		// ------------------------------
		// PATIENTS
		// ------------------------------
		patients := api.Group("/patients")
		patients.Use(middleware.RequireAnyRoleJSON(guard, patientRoles...))
		{
			patients.GET("", patientHandler.List)
			patients.GET("/:id", patientHandler.Get)
			patients.POST("", patientHandler.Create)
			patients.PATCH("/:id", patientHandler.Update)
			patients.DELETE("/:id", patientHandler.Delete)

			patients.GET("/:id/appointments", appointmentHandler.ListByPatient)
		}

		// ------------------------------
		// APPOINTMENTS
		// ------------------------------
		appointments := api.Group("/appointments")
		appointments.Use(middleware.RequireAnyRoleJSON(guard, appointmentRoles...))
		{
			appointments.GET("", appointmentHandler.ListByDate)
			appointments.POST("", appointmentHandler.Schedule)
			appointments.PATCH("/:id/cancel", appointmentHandler.Cancel)
			appointments.PATCH("/:id/complete", appointmentHandler.Complete)
		}

		// ------------------------------
		// CLINICAL RECORDS
		// ------------------------------
		consultations := api.Group("/consultations")
		consultations.Use(middleware.RequireAnyRoleJSON(guard, doctorRoles...))
		{
			consultations.GET("", consultationHandler.List)
			consultations.GET("/:id", consultationHandler.Get)
			consultations.POST("", consultationHandler.Create)
			consultations.PATCH("/:id", consultationHandler.Update)
		}

		prescriptions := api.Group("/prescriptions")
		prescriptions.Use(middleware.RequireAnyRoleJSON(guard, doctorRoles...))
		{
			prescriptions.GET("", prescriptionHandler.List)
			prescriptions.GET("/:id", prescriptionHandler.Get)
			prescriptions.POST("", prescriptionHandler.Create)
			prescriptions.DELETE("/:id", prescriptionHandler.Delete)
		}

		hospitalizations := api.Group("/hospitalizations")
		hospitalizations.Use(middleware.RequireAnyRoleJSON(guard, clinicalRoles...))
		{
			hospitalizations.GET("", hospitalizationHandler.List)
			hospitalizations.GET("/:id", hospitalizationHandler.Get)
			hospitalizations.POST("", hospitalizationHandler.Admit)
			hospitalizations.PATCH("/:id/discharge", hospitalizationHandler.Discharge)
		}

		emergencies := api.Group("/emergencies")
		emergencies.Use(middleware.RequireAnyRoleJSON(guard, clinicalRoles...))
		{
			emergencies.GET("", emergencyHandler.List)
			emergencies.GET("/:id", emergencyHandler.Get)
			emergencies.POST("", emergencyHandler.Create)
			emergencies.PATCH("/:id/resolve", emergencyHandler.Resolve)
		}
	}
}

// requireSignIn gates the neutral landing page: any authenticated user
// may see it, even one whose profile is not provisioned yet.
func requireSignIn(c *gin.Context) {
	if middleware.CurrentUserID(c) == "" {
		c.Redirect(http.StatusSeeOther, rbac.LoginRoute)
		c.Abort()
		return
	}
	c.Next()
}
