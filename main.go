// Package main library checkout API.
//
// @title           Library Checkout API
// @version         1.0
// @description     library record keeper (books, checkouts, returns, users).
// @BasePath        /
// @schemes         http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description  Use:  Bearer <JWT>
package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer"
	authctrl "github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/auth"
	bookctrl "github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/book"
	txnctrl "github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/transaction"
	userctrl "github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/user"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/validation"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/config"
	bookrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/book"
	circrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/circulation"
	userrepo "github.com/ZeyadHassan41/LibraryCapstoneProject/repository/user"
	authsvc "github.com/ZeyadHassan41/LibraryCapstoneProject/service/auth"
	booksvc "github.com/ZeyadHassan41/LibraryCapstoneProject/service/book"
	circsvc "github.com/ZeyadHassan41/LibraryCapstoneProject/service/circulation"
	usersvc "github.com/ZeyadHassan41/LibraryCapstoneProject/service/user"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/util/database"
)

func main() {

	cfg := config.Load()
	ctx := context.Background()

	// logger
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(log)

	// DB
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Error("db connect failed", "err", err)
		os.Exit(1)
	}
	defer db.Close()

	// repos
	ur := userrepo.New(db)
	br := bookrepo.New(db.SQL)
	cr := circrepo.New(db.SQL)

	// services
	as := authsvc.New(ur, cfg.JWTSecret, cfg.JWTTTLHours)
	bs := booksvc.New(br)
	cs := circsvc.New(cr, log)
	us := usersvc.New(ur)

	// controllers
	v := validator.New()
	authC := &authctrl.Controller{Svc: as, V: v, Log: log}
	bookC := &bookctrl.Controller{Svc: bs, V: v, Log: log}
	txnC := &txnctrl.Controller{Svc: cs, V: v, Log: log}
	userC := &userctrl.Controller{Svc: us, V: v, Log: log}

	// echo
	e := echo.New()
	e.HideBanner = true
	echoServer.RegisterMiddlewares(e)
	e.Validator = validation.New()

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]any{
			"status": "ok",
		})
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	echoServer.Register(e, echoServer.C{
		Auth:        authC,
		Book:        bookC,
		Transaction: txnC,
		User:        userC,
		JWTSecret:   cfg.JWTSecret,
	})

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.Port
	}

	log.Info("starting server", "port", port, "env", cfg.Env)

	e.Logger.Fatal(e.Start(":" + port))
}
