package echoServer

import (
	"github.com/labstack/echo/v4"

	"github.com/kahfikurniaaji/library-api/app/echoServer/controller/book"
	"github.com/kahfikurniaaji/library-api/app/echoServer/controller/borrowing"
	"github.com/kahfikurniaaji/library-api/app/echoServer/controller/member"
)

type C struct {
	Book      *book.Controller
	Member    *member.Controller
	Borrowing *borrowing.Controller
}

func Register(e *echo.Echo, c C) {
	// Books
	e.POST("/books", c.Book.Create)
	e.GET("/books", c.Book.List)
	e.GET("/books/:code", c.Book.Detail)
	e.PUT("/books/:code", c.Book.Update)
	e.DELETE("/books/:code", c.Book.Delete)

	// Members
	e.POST("/members", c.Member.Create)
	e.GET("/members", c.Member.List)
	e.GET("/members/:code", c.Member.Detail)
	e.PUT("/members/:code", c.Member.Update)
	e.DELETE("/members/:code", c.Member.Delete)

	// Borrowings: borrow with POST, return with DELETE on the same path.
	e.POST("/borrows", c.Borrowing.Borrow)
	e.DELETE("/borrows", c.Borrowing.Return)
	e.GET("/borrows", c.Borrowing.List)
	e.GET("/borrows/:code", c.Borrowing.Detail)
}
