package models

import "testing"

func TestFullName(t *testing.T) {
	cases := []struct {
		user User
		want string
	}{
		{User{FirstName: "Dana", LastName: "Webb"}, "Dana Webb"},
		{User{FirstName: "Dana"}, "Dana"},
		{User{LastName: "Webb"}, "Webb"},
		{User{Email: "dana.webb@example.com"}, "dana.webb@example.com"},
	}
	for _, tc := range cases {
		if got := tc.user.FullName(); got != tc.want {
			t.Errorf("FullName() = %q, want %q", got, tc.want)
		}
	}
}
