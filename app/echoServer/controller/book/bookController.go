package book

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	bs "github.com/kahfikurniaaji/library-api/service/book"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /books
func (h *Controller) Create(c echo.Context) error {
	var req CreateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	b, err := h.Svc.Create(c.Request().Context(), req.Code, req.Title, req.Author, req.Stock)
	if err != nil {
		switch {
		case errors.Is(err, bs.ErrCodeExists):
			return c.JSON(http.StatusConflict, echo.Map{"message": "Code already exist"})
		case errors.Is(err, bs.ErrInvalid):
			return c.JSON(http.StatusBadRequest, echo.Map{"message": "validation error"})
		default:
			h.Log.Error("book create", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusCreated, toBookResp(b))
}

// GET /books
func (h *Controller) List(c echo.Context) error {
	books, err := h.Svc.List(c.Request().Context())
	if err != nil {
		h.Log.Error("book list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	out := make([]BookResp, 0, len(books))
	for i := range books {
		out = append(out, toBookResp(&books[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /books/:code
func (h *Controller) Detail(c echo.Context) error {
	b, err := h.Svc.ByCode(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, bs.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Book is not exist"})
		}
		h.Log.Error("book detail", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, toBookResp(b))
}

// PUT /books/:code
func (h *Controller) Update(c echo.Context) error {
	var req UpdateBookReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}

	b, err := h.Svc.Update(c.Request().Context(), c.Param("code"), req.Code, req.Title, req.Author)
	if err != nil {
		switch {
		case errors.Is(err, bs.ErrNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Book is not exist"})
		case errors.Is(err, bs.ErrCodeExists):
			return c.JSON(http.StatusConflict, echo.Map{"message": "Book code is already in use"})
		default:
			h.Log.Error("book update", "err", err)
			return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
		}
	}
	return c.JSON(http.StatusOK, toBookResp(b))
}

// DELETE /books/:code
func (h *Controller) Delete(c echo.Context) error {
	b, err := h.Svc.Delete(c.Request().Context(), c.Param("code"))
	if err != nil {
		if errors.Is(err, bs.ErrNotFound) {
			return c.JSON(http.StatusNotFound, echo.Map{"message": "Book is not exist"})
		}
		h.Log.Error("book delete", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	return c.JSON(http.StatusOK, toBookResp(b))
}
