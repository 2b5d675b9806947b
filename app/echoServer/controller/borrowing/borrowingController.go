package borrowing

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	bs "github.com/kahfikurniaaji/library-api/service/borrowing"
)

type Controller struct {
	Svc bs.Service
	V   *validator.Validate
	Log *slog.Logger
}

// POST /borrows
func (h *Controller) Borrow(c echo.Context) error {
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Borrow(c.Request().Context(), req.BookCode, req.MemberCode)
	if err != nil {
		return h.writeError(c, "borrow", err)
	}
	return c.JSON(http.StatusCreated, toBorrowingResp(out))
}

// DELETE /borrows
func (h *Controller) Return(c echo.Context) error {
	var req BorrowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid JSON"})
	}
	if err := h.V.Struct(req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"message": "validation error",
			"errors":  err.Error(),
		})
	}

	out, err := h.Svc.Return(c.Request().Context(), req.BookCode, req.MemberCode)
	if err != nil {
		return h.writeError(c, "return", err)
	}
	return c.JSON(http.StatusOK, toBorrowingResp(out))
}

// GET /borrows?book=&member=
func (h *Controller) List(c echo.Context) error {
	rows, err := h.Svc.List(c.Request().Context(), c.QueryParam("book"), c.QueryParam("member"))
	if err != nil {
		h.Log.Error("borrow list", "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
	out := make([]BorrowingResp, 0, len(rows))
	for i := range rows {
		out = append(out, toBorrowingResp(&rows[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GET /borrows/:code
func (h *Controller) Detail(c echo.Context) error {
	code, err := strconv.ParseInt(c.Param("code"), 10, 64)
	if err != nil || code <= 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid code"})
	}

	out, err := h.Svc.Detail(c.Request().Context(), code)
	if err != nil {
		return h.writeError(c, "borrow detail", err)
	}
	return c.JSON(http.StatusOK, toBorrowingResp(out))
}

func (h *Controller) writeError(c echo.Context, op string, err error) error {
	switch bs.Code(err) {
	case bs.ErrBookNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Book is not exist"})
	case bs.ErrMemberNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Member is not exist"})
	case bs.ErrAlreadyBorrowed:
		return c.JSON(http.StatusConflict, echo.Map{"message": "Members are only allowed to borrow one of the same book"})
	case bs.ErrOutOfStock:
		return c.JSON(http.StatusConflict, echo.Map{"message": "Book is out of stock"})
	case bs.ErrBorrowLimit:
		return c.JSON(http.StatusConflict, echo.Map{"message": "Maximum borrow limit reached"})
	case bs.ErrUnderPenalty:
		return c.JSON(http.StatusForbidden, echo.Map{"message": "Member can't borrow a book are still under penalty"})
	case bs.ErrNotBorrowed:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Member didn't borrow the book"})
	case bs.ErrBorrowingNotFound:
		return c.JSON(http.StatusNotFound, echo.Map{"message": "Borrowing is not exist"})
	default:
		h.Log.Error(op, "err", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"message": "internal error"})
	}
}
