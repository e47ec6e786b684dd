package models

import (
	"testing"
	"time"
)

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	end := func(d time.Duration) *time.Time {
		e := now.Add(d)
		return &e
	}
	tests := map[string]struct {
		profile Profile
		want    int
	}{
		"inactive":           {Profile{SubscriptionActive: false, SubscriptionEnd: end(72 * time.Hour)}, 0},
		"no expiry":          {Profile{SubscriptionActive: true}, 0},
		"already past":       {Profile{SubscriptionActive: true, SubscriptionEnd: end(-time.Hour)}, 0},
		"exactly now":        {Profile{SubscriptionActive: true, SubscriptionEnd: &now}, 0},
		"half day rounds up": {Profile{SubscriptionActive: true, SubscriptionEnd: end(12 * time.Hour)}, 1},
		"thirty days":        {Profile{SubscriptionActive: true, SubscriptionEnd: end(30 * 24 * time.Hour)}, 30},
		"thirty and a bit":   {Profile{SubscriptionActive: true, SubscriptionEnd: end(30*24*time.Hour + time.Minute)}, 31},
	}
	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			if got := tc.profile.DaysRemaining(now); got != tc.want {
				t.Errorf("DaysRemaining = %d, want %d", got, tc.want)
			}
		})
	}
}
