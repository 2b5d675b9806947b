package member

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	ms "github.com/kahfikurniaaji/library-api/service/member"
)

type Controller struct {
	Svc ms.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /members
func (h *Controller) Create(c echo.Context) error {
	var req CreateMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	m, err := h.Svc.Create(c.Request().Context(), req.Code, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ms.ErrCodeExists):
			return c.JSON(http.StatusConflict, echo.Map{"message": "Code already exist"})
		case errors.Is(err, ms.ErrInvalid):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		default:
			h.Log.Error("member create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, toMemberResp(m))
}

// GET /members
func (h *Controller) List(c echo.Context) error {
	members, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("member list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	out := make([]MemberResp, 0, len(members))
	for i := range members {
		out = append(out, toMemberResp(&members[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /members/:code
func (h *Controller) Detail(c echo.Context) error {
	m, err := h.Svc.ByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ms.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Member is not exist"})
		}
		h.Log.Error("member detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, toMemberResp(m))
}

// PUT /members/:code
func (h *Controller) Update(c echo.Context) error {
	var req UpdateMemberReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	m, err := h.Svc.Update(c.Request().Context(), c.Param("code"), req.Code, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, ms.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Member is not exist"})
		case errors.Is(err, ms.ErrCodeExists):
			return c.JSON(http.StatusConflict, echo.Map{"message": "Member code is already in use"})
		default:
			h.Log.Error("member update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, toMemberResp(m))
}

// DELETE /members/:code
func (h *Controller) Delete(c echo.Context) error {
	m, err := h.Svc.Delete(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, ms.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Member is not exist"})
		}
		h.Log.Error("member delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, toMemberResp(m))
}
