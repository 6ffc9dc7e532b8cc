// app/echoServer/policy.go
package echoServer

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/app/echoServer/jwtx"
	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
)

type Operation string

const (
	OpBookCreate Operation = "book:create"
	OpBookUpdate Operation = "book:update"
	OpBookDelete Operation = "book:delete"
	OpCheckout   Operation = "transaction:checkout"
	OpReturn     Operation = "transaction:return"
	OpHistory    Operation = "transaction:history"
	OpUserList   Operation = "user:list"
	OpUserGet    Operation = "user:get"
	OpUserUpdate Operation = "user:update"
)

// policy is the single place mapping (role, operation) to allow.
// Ownership checks (a user touching their own record) stay with the
// services, which see the target id.
var policy = map[model.Role]map[Operation]bool{
	model.RoleAdmin: {
		OpBookCreate: true,
		OpBookUpdate: true,
		OpBookDelete: true,
		OpCheckout:   true,
		OpReturn:     true,
		OpHistory:    true,
		OpUserList:   true,
		OpUserGet:    true,
		OpUserUpdate: true,
	},
	model.RoleUser: {
		OpCheckout:   true,
		OpReturn:     true,
		OpHistory:    true,
		OpUserGet:    true,
		OpUserUpdate: true,
	},
}

func Allowed(role model.Role, op Operation) bool {
	return policy[role][op]
}

// Require rejects callers whose role does not allow the operation.
func Require(op Operation) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id, ok := jwtx.Identity(c)
			if !ok {
				return c.JSON(http.StatusUnauthorized, echo.Map{
					"code":    "UNAUTHORIZED",
					"message": "missing or invalid token",
				})
			}
			if !Allowed(id.Role, op) {
				return c.JSON(http.StatusForbidden, echo.Map{
					"code":    "FORBIDDEN",
					"message": "operation not allowed for role",
				})
			}
			return next(c)
		}
	}
}
