package repositories

import (
	"strings"
	"testing"

	"github.com/anashamdi123/3a9ari-sub001/internal/models"
)

func TestBuildListingConditions_LocationModes(t *testing.T) {
	cases := []struct {
		name      string
		filter    models.ListingFilter
		wantCond  string
		wantParam string
	}{
		{
			name:      "city and delegation match exact pair",
			filter:    models.ListingFilter{City: "تونس", Delegation: "المرسى"},
			wantCond:  "l.location LIKE ?",
			wantParam: "المرسى, تونس",
		},
		{
			name:      "city only matches suffix",
			filter:    models.ListingFilter{City: "تونس"},
			wantCond:  "l.location LIKE ?",
			wantParam: "%, تونس",
		},
		{
			name:      "delegation only matches prefix",
			filter:    models.ListingFilter{Delegation: "المرسى"},
			wantCond:  "l.location LIKE ?",
			wantParam: "المرسى,%",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			conditions, params := buildListingConditions(tc.filter)
			if len(conditions) != 1 {
				t.Fatalf("expected exactly one condition got %d", len(conditions))
			}
			if conditions[0] != tc.wantCond {
				t.Fatalf("expected condition %q got %q", tc.wantCond, conditions[0])
			}
			if params[0] != tc.wantParam {
				t.Fatalf("expected param %q got %q", tc.wantParam, params[0])
			}
		})
	}
}

func TestBuildListingConditions_AllFields(t *testing.T) {
	filter := models.ListingFilter{
		Status:     models.StatusApproved,
		OwnerID:    3,
		Category:   "apartment",
		City:       "تونس",
		Delegation: "المرسى",
	}
	conditions, params := buildListingConditions(filter)

	if len(conditions) != 4 {
		t.Fatalf("expected 4 conditions got %d: %v", len(conditions), conditions)
	}
	if len(params) != 4 {
		t.Fatalf("expected 4 params got %d", len(params))
	}

	joined := strings.Join(conditions, " AND ")
	for _, want := range []string{"l.status = ?", "l.user_id = ?", "l.category = ?", "l.location LIKE ?"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("missing condition %q in %q", want, joined)
		}
	}
}

func TestBuildListingConditions_Empty(t *testing.T) {
	conditions, params := buildListingConditions(models.ListingFilter{})
	if len(conditions) != 0 || len(params) != 0 {
		t.Fatalf("empty filter produced conditions %v params %v", conditions, params)
	}
}

func TestCountCacheKey_DistinguishesFilters(t *testing.T) {
	a := countCacheKey(models.ListingFilter{Status: models.StatusApproved, City: "تونس"})
	b := countCacheKey(models.ListingFilter{Status: models.StatusApproved, Delegation: "تونس"})
	if a == b {
		t.Fatalf("city and delegation filters share cache key %q", a)
	}
}
