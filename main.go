// Package main library API.
//
// @title           Library API
// @version         1.0
// @description     Library management service (books, members, borrowings).
// @BasePath        /
// @schemes         http
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/kahfikurniaaji/library-api/app/echoServer"
	bookctrl "github.com/kahfikurniaaji/library-api/app/echoServer/controller/book"
	borrowctrl "github.com/kahfikurniaaji/library-api/app/echoServer/controller/borrowing"
	memberctrl "github.com/kahfikurniaaji/library-api/app/echoServer/controller/member"
	"github.com/kahfikurniaaji/library-api/app/echoServer/validation"
	"github.com/kahfikurniaaji/library-api/config"
	bookrepo "github.com/kahfikurniaaji/library-api/repository/book"
	borrowrepo "github.com/kahfikurniaaji/library-api/repository/borrowing"
	memberrepo "github.com/kahfikurniaaji/library-api/repository/member"
	booksvc "github.com/kahfikurniaaji/library-api/service/book"
	borrowsvc "github.com/kahfikurniaaji/library-api/service/borrowing"
	membersvc "github.com/kahfikurniaaji/library-api/service/member"
	penaltysvc "github.com/kahfikurniaaji/library-api/service/penalty"
	"github.com/kahfikurniaaji/library-api/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	// DB: *sql.DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Error("db migrate failed", "err", err)
		os.Exit(1)
	}

	// repos
	br := bookrepo.New(db)
	mr := memberrepo.New(db)
	rr := borrowrepo.New(db)

	// services
	bs := booksvc.New(br)
	ms := membersvc.New(mr)
	rs := borrowsvc.New(db, rr)
	ps := penaltysvc.New(mr)

	// daily penalty decay
	penaltysvc.NewWorker(ps, log).Start(ctx)

	// controllers
	v := validator.New()
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	memberC := &memberctrl.Controller{Svc: ms, V: v, Log: log}
	borrowC := &borrowctrl.Controller{Svc: rs, V: v, Log: log}

	// echo
	e := echo.New()
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status":  "ok",
			"message": "Service is healthy and connected",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Book:      bookC,
		Member:    memberC,
		Borrowing: borrowC,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}
	if port == "" {
		port = "8080"
	}

	log.Info("starting server", "port", port)

	e.Logger.Fatal(e.Start(cfg.Host + ":" + port))
}
