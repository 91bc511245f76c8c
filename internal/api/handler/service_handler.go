package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/servicebazaar/bazaar-api/internal/api/metrics"
	"github.com/servicebazaar/bazaar-api/internal/core/domain"
	"github.com/servicebazaar/bazaar-api/internal/core/ports"
)

// ServiceHandler exposes the service catalog.
type ServiceHandler struct {
	catalog ports.CatalogService
}

func NewServiceHandler(catalog ports.CatalogService) *ServiceHandler {
	return &ServiceHandler{catalog: catalog}
}

type createServiceRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Rate        float64 `json:"rate"`
	IconURL     string  `json:"iconUrl"`
}

// updateServiceRequest uses pointers so absent fields keep their value.
type updateServiceRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Rate        *float64 `json:"rate"`
	IconURL     *string  `json:"iconUrl"`
}

func (r updateServiceRequest) patch() (domain.ServicePatch, error) {
	var p domain.ServicePatch
	if r.Name != nil {
		p.Name = *r.Name
	}
	if r.Description != nil {
		p.Description = *r.Description
	}
	if r.Rate != nil {
		if *r.Rate <= 0 {
			return p, domain.InvalidInput("rate must be positive")
		}
		p.Rate = *r.Rate
	}
	if r.IconURL != nil {
		p.IconURL = *r.IconURL
	}
	return p, nil
}

type messageResponse struct {
	Message string `json:"message"`
}

// List returns the whole catalog.
//
// @Summary      List services
// @Tags         services
// @Produce      json
// @Success      200  {array}   domain.Service
// @Router       /services [get]
func (h *ServiceHandler) List(c echo.Context) error {
	services, err := h.catalog.ListServices(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, services)
}

// Get returns a single service.
//
// @Summary      Get service
// @Tags         services
// @Produce      json
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  domain.Service
// @Failure      404  {object}  map[string]string
// @Router       /services/{id} [get]
func (h *ServiceHandler) Get(c echo.Context) error {
	svc, err := h.catalog.GetService(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, svc)
}

// Create adds a service to the catalog. Admin only.
//
// @Summary      Create service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createServiceRequest  true  "Service details"
// @Success      201   {object}  domain.Service
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Router       /services [post]
func (h *ServiceHandler) Create(c echo.Context) error {
	var req createServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	svc, err := h.catalog.CreateService(c.Request().Context(), ports.CreateServiceInput{
		Name:        req.Name,
		Description: req.Description,
		Rate:        req.Rate,
		IconURL:     req.IconURL,
	})
	if err != nil {
		return err
	}

	metrics.ServiceMutationsTotal.WithLabelValues("create").Inc()
	return c.JSON(http.StatusCreated, svc)
}

// Update changes the given fields of a service. Admin only.
//
// @Summary      Update service
// @Tags         services
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Service ID"
// @Param        body  body      updateServiceRequest  true  "Fields to change"
// @Success      200   {object}  domain.Service
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Router       /services/{id} [put]
func (h *ServiceHandler) Update(c echo.Context) error {
	var req updateServiceRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	patch, err := req.patch()
	if err != nil {
		return err
	}

	svc, err := h.catalog.UpdateService(c.Request().Context(), c.Param("id"), patch)
	if err != nil {
		return err
	}

	metrics.ServiceMutationsTotal.WithLabelValues("update").Inc()
	return c.JSON(http.StatusOK, svc)
}

// Delete removes a service. Admin only.
//
// @Summary      Delete service
// @Tags         services
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Service ID"
// @Success      200  {object}  messageResponse
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /services/{id} [delete]
func (h *ServiceHandler) Delete(c echo.Context) error {
	if err := h.catalog.DeleteService(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}

	metrics.ServiceMutationsTotal.WithLabelValues("delete").Inc()
	return c.JSON(http.StatusOK, messageResponse{Message: "Service deleted"})
}
