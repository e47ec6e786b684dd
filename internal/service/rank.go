package service

import "invertred/internal/domain"

// Rank returns the title of the highest tier whose threshold does not exceed
// totalReferrals. The table must be ordered by descending threshold; the last
// entry is the floor returned for zero or unmapped values.
func Rank(table []domain.RankTier, totalReferrals int) string {
	if len(table) == 0 {
		return ""
	}
	for _, tier := range table {
		if totalReferrals >= tier.Min {
			return tier.Title
		}
	}
	return table[len(table)-1].Title
}
