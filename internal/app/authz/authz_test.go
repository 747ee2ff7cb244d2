package authz

import (
	"testing"

	customErrors "github.com/commforge/community-backend/internal/domain/community/errors"
)

func TestAuthorize(t *testing.T) {
	cases := []struct {
		name    string
		acting  int64
		owner   int64
		allowed bool
	}{
		{"same id", 7, 7, true},
		{"different id", 7, 8, false},
		{"zero vs zero", 0, 0, true},
		{"zero vs nonzero", 0, 1, false},
		{"negative vs negative equal", -5, -5, true},
		{"negative vs positive", -5, 5, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := Authorize(tc.acting, tc.owner)
			if tc.allowed && err != nil {
				t.Fatalf("want allowed, got %v", err)
			}
			if !tc.allowed && !customErrors.IsForbidden(err) {
				t.Fatalf("want ErrForbidden, got %v", err)
			}
		})
	}
}
