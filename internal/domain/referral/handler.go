package referral

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/vitalred/vitalred/internal/platform/auth"
	"github.com/vitalred/vitalred/internal/triage"
	"github.com/vitalred/vitalred/pkg/pagination"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(api *echo.Group) {
	readGroup := api.Group("", auth.RequireRole("admin", "physician", "nurse", "coordinator"))
	readGroup.GET("/referrals", h.ListCases)
	readGroup.GET("/referrals/stats", h.Stats)
	readGroup.GET("/referrals/:id", h.GetCase)

	writeGroup := api.Group("", auth.RequireRole("admin", "physician", "coordinator"))
	writeGroup.POST("/referrals", h.IngestCase)
	writeGroup.POST("/classify", h.ClassifyText)
	writeGroup.PUT("/referrals/:id/review", h.ReviewCase)

	adminGroup := api.Group("", auth.RequireRole("admin"))
	adminGroup.DELETE("/referrals/:id", h.DeleteCase)
}

// IngestCase classifies the referral text and stores the resulting case.
func (h *Handler) IngestCase(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	created, err := h.svc.Ingest(c.Request().Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusCreated, created)
}

// ClassifyText runs the engine without persisting. Odd text is not an error;
// the engine always produces a verdict.
func (h *Handler) ClassifyText(c echo.Context) error {
	var req IngestRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var meta *triage.Metadata
	if req.SenderDomain != "" || req.SenderInstitution != "" {
		meta = &triage.Metadata{SenderDomain: req.SenderDomain, Institution: req.SenderInstitution}
	}
	return c.JSON(http.StatusOK, h.svc.Classify(req.Text, meta))
}

func (h *Handler) GetCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	found, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, "referral case not found")
	}
	return c.JSON(http.StatusOK, found)
}

func (h *Handler) ListCases(c echo.Context) error {
	pg := pagination.FromContext(c)
	if level := c.QueryParam("priority_level"); level != "" {
		items, total, err := h.svc.ListByLevel(c.Request().Context(), level, pg.Limit, pg.Offset)
		if err != nil {
			if errors.Is(err, ErrInvalidInput) {
				return echo.NewHTTPError(http.StatusBadRequest, err.Error())
			}
			return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
		}
		return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
	}

	params := map[string]string{}
	for _, key := range []string{"specialty", "status", "referral_type"} {
		if v := c.QueryParam(key); v != "" {
			params[key] = v
		}
	}
	items, total, err := h.svc.Search(c.Request().Context(), params, pg.Limit, pg.Offset)
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(items, total, pg.Limit, pg.Offset))
}

func (h *Handler) ReviewCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	var req ReviewRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	updated, err := h.svc.Review(c.Request().Context(), id, req)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, updated)
}

func (h *Handler) DeleteCase(c echo.Context) error {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	if err := h.svc.Delete(c.Request().Context(), id); err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) Stats(c echo.Context) error {
	counts, err := h.svc.Stats(c.Request().Context())
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
	}
	return c.JSON(http.StatusOK, counts)
}
