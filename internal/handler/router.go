package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/arturffsantos/gympoint/internal/middleware"
	"github.com/arturffsantos/gympoint/internal/service"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Auth          *AuthHandler
	Users         *UserHandler
	Students      *StudentHandler
	Plans         *PlanHandler
	Registrations *RegistrationHandler
	Checkins      *CheckinHandler
	HelpOrders    *HelpOrderHandler
}

// RegisterRoutes mounts the API surface on the given engine.
//
// Sessions, user signup and help-order creation are open; everything else
// requires a valid token. The /enrollments routes are an alias of
// /registrations kept for clients of the older API shape.
func RegisterRoutes(r *gin.Engine, h Handlers, auth *service.AuthService, metrics *service.MetricsService) {
	r.Use(middleware.Metrics(metrics))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})
	if metrics != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler()))
	}

	r.POST("/sessions", h.Auth.Login)
	r.POST("/users", h.Users.Register)

	r.POST("/students/:id/help-orders", h.HelpOrders.Create)

	protected := r.Group("/")
	protected.Use(middleware.JWT(auth))
	{
		protected.PUT("/users", h.Users.Update)

		protected.GET("/students", h.Students.List)
		protected.POST("/students", h.Students.Create)
		protected.PUT("/students/:id", h.Students.Update)
		protected.GET("/students/:id/help-orders", h.HelpOrders.ListByStudent)
		protected.GET("/students/:id/checkins", h.Checkins.List)
		protected.POST("/students/:id/checkins", h.Checkins.Create)

		protected.GET("/plans", h.Plans.List)
		protected.POST("/plans", h.Plans.Create)
		protected.PUT("/plans/:id", h.Plans.Update)
		protected.DELETE("/plans/:id", h.Plans.Delete)

		protected.GET("/registrations", h.Registrations.List)
		protected.GET("/registrations/export", h.Registrations.Export)
		protected.POST("/registrations", h.Registrations.Create)
		protected.PUT("/registrations/:id", h.Registrations.Update)
		protected.DELETE("/registrations/:id", h.Registrations.Delete)

		protected.GET("/enrollments", h.Registrations.List)
		protected.POST("/enrollments", h.Registrations.Create)
		protected.PUT("/enrollments/:id", h.Registrations.Update)
		protected.DELETE("/enrollments/:id", h.Registrations.Delete)

		protected.GET("/answers", h.HelpOrders.ListUnanswered)
		protected.POST("/answers/:id", h.HelpOrders.Answer)
	}
}
