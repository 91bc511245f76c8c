package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicebazaar/bazaar-api/internal/api/metrics"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// InboxHandler accepts feedback and contact-form messages from visitors.
type InboxHandler struct {
	inbox ports.InboxService
}

func NewInboxHandler(inbox ports.InboxService) *InboxHandler {
	return &InboxHandler{inbox: inbox}
}

type feedbackRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Service string `json:"service"`
	Rating  int    `json:"rating" validate:"min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type contactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

// SubmitFeedback stores a rating.
//
// @Summary      Submit feedback
// @Tags         inbox
// @Accept       json
// @Produce      json
// @Param        body  body      feedbackRequest  true  "Feedback"
// @Success      201   {object}  domain.Feedback
// @Failure      400   {object}  map[string]string
// @Router       /feedback [post]
func (h *InboxHandler) SubmitFeedback(c echo.Context) error {
	var req feedbackRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	f, err := h.inbox.SubmitFeedback(c.Request().Context(), ports.FeedbackInput{
		Name:    req.Name,
		Email:   req.Email,
		Service: req.Service,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		return err
	}

	metrics.InboxSubmissionsTotal.WithLabelValues("feedback").Inc()
	return c.JSON(http.StatusCreated, f)
}

// SubmitContact stores a contact-form message.
//
// @Summary      Send contact message
// @Tags         inbox
// @Accept       json
// @Produce      json
// @Param        body  body      contactRequest  true  "Message"
// @Success      201   {object}  domain.ContactMessage
// @Failure      400   {object}  map[string]string
// @Router       /contact [post]
func (h *InboxHandler) SubmitContact(c echo.Context) error {
	var req contactRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	m, err := h.inbox.SubmitContact(c.Request().Context(), ports.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Message: req.Message,
	})
	if err != nil {
		return err
	}

	metrics.InboxSubmissionsTotal.WithLabelValues("contact").Inc()
	return c.JSON(http.StatusCreated, m)
}

// ListFeedback returns all feedback. Admin only.
//
// @Summary      List feedback
// @Tags         inbox
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Feedback
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /feedback [get]
func (h *InboxHandler) ListFeedback(c echo.Context) error {
	items, err := h.inbox.ListFeedback(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}

// ListContact returns all contact messages. Admin only.
//
// @Summary      List contact messages
// @Tags         inbox
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.ContactMessage
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /contact [get]
func (h *InboxHandler) ListContact(c echo.Context) error {
	items, err := h.inbox.ListContact(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
