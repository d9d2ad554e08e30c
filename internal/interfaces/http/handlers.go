package http

import (
	"errors"
	stdhttp "net/http"

	"github.com/labstack/echo/v4"

	adaptermiddleware "farmaid-portal/internal/adapters/http/middleware"
	"farmaid-portal/internal/application"
	"farmaid-portal/internal/domain"
)

func handleError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrPermissionDenied):
		return c.JSON(stdhttp.StatusForbidden, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.JSON(stdhttp.StatusNotFound, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrDuplicateApplication),
		errors.Is(err, domain.ErrInvalidTransition):
		return c.JSON(stdhttp.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, domain.ErrTimeout):
		return c.JSON(stdhttp.StatusGatewayTimeout, map[string]string{"error": domain.ErrTimeout.Error()})
	case errors.Is(err, domain.ErrStore):
		return c.JSON(stdhttp.StatusBadGateway, map[string]string{"error": domain.ErrStore.Error()})
	default:
		return c.JSON(stdhttp.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func session(c echo.Context, roles *application.RoleService) domain.Session {
	return roles.Session(c.Request().Context(), adaptermiddleware.IdentityFrom(c))
}

type SessionHandler struct {
	roles *application.RoleService
}

func NewSessionHandler(roles *application.RoleService) *SessionHandler {
	return &SessionHandler{roles: roles}
}

func (h *SessionHandler) Me(c echo.Context) error {
	sess := session(c, h.roles)
	if !sess.Identity.Authenticated() {
		return c.JSON(stdhttp.StatusUnauthorized, map[string]string{"error": "not authenticated"})
	}
	return c.JSON(stdhttp.StatusOK, sess)
}

func (h *SessionHandler) Logout(c echo.Context) error {
	identity := adaptermiddleware.IdentityFrom(c)
	if identity.Authenticated() {
		h.roles.Invalidate(identity.UID)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

type cropRequest struct {
	Name        string `json:"name"`
	Season      string `json:"season"`
	Location    string `json:"location"`
	Pesticides  string `json:"pesticides"`
	Description string `json:"description"`
}

func (r cropRequest) toDomain(id string) domain.Crop {
	return domain.Crop{
		ID:          id,
		Name:        r.Name,
		Season:      r.Season,
		Location:    r.Location,
		Pesticides:  r.Pesticides,
		Description: r.Description,
	}
}

type CropsHandler struct {
	crops *application.CropService
	roles *application.RoleService
}

func NewCropsHandler(crops *application.CropService, roles *application.RoleService) *CropsHandler {
	return &CropsHandler{crops: crops, roles: roles}
}

func (h *CropsHandler) List(c echo.Context) error {
	crops, err := h.crops.List(c.Request().Context(), session(c, h.roles))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, crops)
}

func (h *CropsHandler) Create(c echo.Context) error {
	var req cropRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	crop, err := h.crops.Create(c.Request().Context(), session(c, h.roles), req.toDomain(""))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusCreated, crop)
}

func (h *CropsHandler) Update(c echo.Context) error {
	var req cropRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := h.crops.Update(c.Request().Context(), session(c, h.roles), req.toDomain(c.Param("id"))); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(stdhttp.StatusOK)
}

func (h *CropsHandler) Delete(c echo.Context) error {
	if err := h.crops.Delete(c.Request().Context(), session(c, h.roles), c.Param("id")); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

type schemeRequest struct {
	Title       string `json:"title"`
	Provider    string `json:"provider"`
	Eligibility string `json:"eligibility"`
	Benefits    string `json:"benefits"`
	Deadline    string `json:"deadline"`
}

func (r schemeRequest) toDomain(id string) domain.Scheme {
	return domain.Scheme{
		ID:          id,
		Title:       r.Title,
		Provider:    r.Provider,
		Eligibility: r.Eligibility,
		Benefits:    r.Benefits,
		Deadline:    r.Deadline,
	}
}

type SchemesHandler struct {
	schemes *application.SchemeService
	roles   *application.RoleService
}

func NewSchemesHandler(schemes *application.SchemeService, roles *application.RoleService) *SchemesHandler {
	return &SchemesHandler{schemes: schemes, roles: roles}
}

func (h *SchemesHandler) List(c echo.Context) error {
	schemes, err := h.schemes.List(c.Request().Context(), session(c, h.roles))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, schemes)
}

func (h *SchemesHandler) Create(c echo.Context) error {
	var req schemeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	scheme, err := h.schemes.Create(c.Request().Context(), session(c, h.roles), req.toDomain(""))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusCreated, scheme)
}

func (h *SchemesHandler) Update(c echo.Context) error {
	var req schemeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	if err := h.schemes.Update(c.Request().Context(), session(c, h.roles), req.toDomain(c.Param("id"))); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(stdhttp.StatusOK)
}

func (h *SchemesHandler) Delete(c echo.Context) error {
	if err := h.schemes.Delete(c.Request().Context(), session(c, h.roles), c.Param("id")); err != nil {
		return handleError(c, err)
	}
	return c.NoContent(stdhttp.StatusNoContent)
}

type GrantsHandler struct {
	grants *application.GrantService
	roles  *application.RoleService
}

func NewGrantsHandler(grants *application.GrantService, roles *application.RoleService) *GrantsHandler {
	return &GrantsHandler{grants: grants, roles: roles}
}

func (h *GrantsHandler) Apply(c echo.Context) error {
	app, err := h.grants.Apply(c.Request().Context(), session(c, h.roles), c.Param("id"))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusCreated, app)
}

func (h *GrantsHandler) ListMine(c echo.Context) error {
	apps, err := h.grants.ListMine(c.Request().Context(), session(c, h.roles))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, apps)
}

func (h *GrantsHandler) ListAll(c echo.Context) error {
	apps, err := h.grants.ListAll(c.Request().Context(), session(c, h.roles))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, apps)
}

func (h *GrantsHandler) SetStatus(c echo.Context) error {
	var req struct {
		Status string `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(stdhttp.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}
	err := h.grants.SetStatus(c.Request().Context(), session(c, h.roles),
		c.Param("id"), domain.GrantStatus(req.Status))
	if err != nil {
		return handleError(c, err)
	}
	return c.NoContent(stdhttp.StatusOK)
}

type StatsHandler struct {
	stats *application.StatsService
	roles *application.RoleService
}

func NewStatsHandler(stats *application.StatsService, roles *application.RoleService) *StatsHandler {
	return &StatsHandler{stats: stats, roles: roles}
}

func (h *StatsHandler) Overview(c echo.Context) error {
	overview, err := h.stats.Overview(c.Request().Context(), session(c, h.roles))
	if err != nil {
		return handleError(c, err)
	}
	return c.JSON(stdhttp.StatusOK, overview)
}
