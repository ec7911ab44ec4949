package repository

import (
	"errors"

	"securebase-billing/internal/model"
)

var ErrNotFound = errors.New("record not found")

// statusesAtOrBelow lists the statuses an upsert to target may overwrite.
func statusesAtOrBelow(target model.Status) []string {
	var out []string
	for _, s := range []model.Status{model.StatusUnpaid, model.StatusPending, model.StatusPro} {
		if s.Rank() <= target.Rank() {
			out = append(out, string(s))
		}
	}
	return out
}
