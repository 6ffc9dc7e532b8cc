package echoServer

import (
	"github.com/labstack/echo/v4"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/auth"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/book"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/transaction"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/controller/user"
)

type C struct {
	Auth        *auth.Controller
	Book        *book.Controller
	Transaction *transaction.Controller
	User        *user.Controller
	JWTSecret   string
}

func Register(e *echo.Echo, c C) {
	// Public
	pub := e.Group("/v1")
	pub.POST("/users/register", c.Auth.Register)
	pub.POST("/users/login", c.Auth.Login)

	// Catalog reads are open to anonymous callers.
	pub.GET("/books", c.Book.List)
	pub.GET("/books/:id", c.Book.Detail)

	// Auth
	authed := e.Group("/v1")
	authed.Use(JWT(c.JWTSecret))
	authed.Use(ResolveIdentity())

	// Catalog mutation
	authed.POST("/books", c.Book.Create, Require(OpBookCreate))
	authed.PUT("/books/:id", c.Book.Update, Require(OpBookUpdate))
	authed.PATCH("/books/:id", c.Book.Update, Require(OpBookUpdate))
	authed.DELETE("/books/:id", c.Book.Delete, Require(OpBookDelete))

	// Circulation
	authed.POST("/transactions/checkout", c.Transaction.Checkout, Require(OpCheckout))
	authed.POST("/transactions/return", c.Transaction.Return, Require(OpReturn))
	authed.GET("/transactions/history", c.Transaction.History, Require(OpHistory))

	// Users
	authed.GET("/users", c.User.List, Require(OpUserList))
	authed.GET("/users/:id", c.User.Get, Require(OpUserGet))
	authed.PUT("/users/:id", c.User.Update, Require(OpUserUpdate))
}
