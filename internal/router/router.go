package router

import (
	"github.com/gofiber/fiber/v2"

	"github.com/UtonulVTebe/studyhub-api/internal/config"
	"github.com/UtonulVTebe/studyhub-api/internal/handler"
	"github.com/UtonulVTebe/studyhub-api/internal/middleware"
	"github.com/UtonulVTebe/studyhub-api/internal/models"
	"github.com/UtonulVTebe/studyhub-api/internal/observability"
)

// Dependencies groups router dependencies for registration.
type Dependencies struct {
	CourseHandler     *handler.CourseHandler
	EnrollmentHandler *handler.EnrollmentHandler
	SubmissionHandler *handler.SubmissionHandler
	ActivityHandler   *handler.ActivityHandler
	JWTMiddleware     fiber.Handler
	SubmitRateLimit   fiber.Handler
}

// Register wires the HTTP routes into the fiber application.
func Register(app *fiber.App, cfg config.Config, deps Dependencies) {
	api := app.Group("/api/v1", func(c *fiber.Ctx) error {
		c.Set("X-Application", cfg.AppName)
		return c.Next()
	})
	api.Get("/health", handler.HealthCheck(cfg))
	app.Get("/metrics", observability.MetricsHandler())

	// Use provided JWT middleware, or a no-op if nil
	jwtMiddleware := deps.JWTMiddleware
	if jwtMiddleware == nil {
		jwtMiddleware = func(c *fiber.Ctx) error { return c.Next() }
	}

	teaching := middleware.RequireRole(models.RoleTeacher, models.RoleAdmin)

	if deps.CourseHandler != nil {
		courses := api.Group("/courses", jwtMiddleware)
		deps.CourseHandler.Register(courses)

		if deps.EnrollmentHandler != nil {
			deps.EnrollmentHandler.Register(courses)
		}
	}

	if deps.SubmissionHandler != nil {
		submissions := api.Group("/submissions", jwtMiddleware)
		if deps.SubmitRateLimit != nil {
			deps.SubmissionHandler.Register(submissions, deps.SubmitRateLimit)
		} else {
			deps.SubmissionHandler.Register(submissions)
		}

		review := api.Group("/review/submissions", jwtMiddleware, teaching)
		deps.SubmissionHandler.RegisterReview(review)
	}

	if deps.ActivityHandler != nil {
		activity := api.Group("/activity", jwtMiddleware, middleware.RequireRole(models.RoleAdmin))
		deps.ActivityHandler.Register(activity)
	}
}
