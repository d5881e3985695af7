package domain

import "testing"

func TestParseRole(t *testing.T) {
	cases := []struct {
		in   string
		want Role
		ok   bool
	}{
		{"user", RoleUser, true},
		{"sales", RoleSales, true},
		{"supervisor", RoleSupervisor, true},
		{"admin", RoleAdmin, true},
		{"ADMIN", RoleAdmin, true},
		{"Sales", RoleSales, true},
		{"", RoleUser, false},
		{"root", RoleUser, false},
	}
	for _, tc := range cases {
		got, ok := ParseRole(tc.in)
		if got != tc.want || ok != tc.ok {
			t.Errorf("ParseRole(%q) = (%v, %v), want (%v, %v)", tc.in, got, ok, tc.want, tc.ok)
		}
	}
}

func TestRoleMeets(t *testing.T) {
	if !RoleAdmin.Meets(RoleUser) {
		t.Fatalf("admin should meet user")
	}
	if !RoleSupervisor.Meets(RoleSales) {
		t.Fatalf("supervisor should meet sales")
	}
	if !RoleSales.Meets(RoleSales) {
		t.Fatalf("a role should meet itself")
	}
	if RoleUser.Meets(RoleSales) {
		t.Fatalf("user should not meet sales")
	}
	if RoleSales.Meets(RoleAdmin) {
		t.Fatalf("sales should not meet admin")
	}
}

func TestRoleString(t *testing.T) {
	if RoleSupervisor.String() != "supervisor" {
		t.Fatalf("unexpected name: %s", RoleSupervisor.String())
	}
	if Role(0).Valid() {
		t.Fatalf("zero role should be invalid")
	}
	if !RoleAdmin.Valid() {
		t.Fatalf("admin should be valid")
	}
}
