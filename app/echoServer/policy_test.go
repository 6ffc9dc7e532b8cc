package echoServer

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ZeyadHassan41/LibraryCapstoneProject/model"
)

func TestPolicy(t *testing.T) {
	cases := []struct {
		role model.Role
		op   Operation
		want bool
	}{
		{model.RoleAdmin, OpBookCreate, true},
		{model.RoleAdmin, OpBookDelete, true},
		{model.RoleAdmin, OpUserList, true},
		{model.RoleAdmin, OpCheckout, true},

		{model.RoleUser, OpCheckout, true},
		{model.RoleUser, OpReturn, true},
		{model.RoleUser, OpHistory, true},
		{model.RoleUser, OpUserGet, true},
		{model.RoleUser, OpUserUpdate, true},

		{model.RoleUser, OpBookCreate, false},
		{model.RoleUser, OpBookUpdate, false},
		{model.RoleUser, OpBookDelete, false},
		{model.RoleUser, OpUserList, false},

		{model.Role("anonymous"), OpCheckout, false},
		{model.Role(""), OpBookCreate, false},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, Allowed(tc.role, tc.op), "role=%s op=%s", tc.role, tc.op)
	}
}
