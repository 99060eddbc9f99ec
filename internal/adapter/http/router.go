package http

import (
	"github.com/labstack/echo/v4"
)

// RegisterRoutes wires every endpoint onto the echo instance. Mutating
// routes are expected to sit behind the idempotency middleware, which the
// caller attaches before handing e in.
func RegisterRoutes(e *echo.Echo, h *Handler, apps *ApplicationHandler, forms *FormHandler, actions *ActionHandler) {
	e.GET("/health", h.Health)

	e.POST("/applications", apps.CreateApplication)
	e.GET("/applications", apps.ListApplications)
	e.GET("/applications/:application_id", apps.GetApplication)

	e.GET("/applications/:application_id/forms/:form_type", forms.GetForm)
	e.PUT("/applications/:application_id/forms/:form_type", forms.UpdateForm)
	e.POST("/applications/:application_id/tasks/:task/complete", forms.MarkTaskComplete)

	e.POST("/applications/:application_id/pdf", actions.GeneratePDF)
	e.POST("/applications/:application_id/email", actions.SendEmail)
}
