package catalog

import (
	"math"
	"time"

	"ecofood/internal/models"
)

// ExpiringSoonDays is the last day count, inclusive, at which a product is
// still reported as expiring soon rather than available.
const ExpiringSoonDays = 3

// DaysRemaining counts whole calendar days from now until expiration. Time
// of day is ignored on both sides; now is truncated in its own location.
func DaysRemaining(expiration models.Date, now time.Time) int {
	today := models.DateOf(now)
	return int(math.Floor(expiration.Sub(today.Time).Hours() / 24))
}

// DeriveStatus is the write-time status of a product expiring on
// expiration. Stored products keep the value computed at their last write.
func DeriveStatus(expiration models.Date, now time.Time) models.ProductStatus {
	days := DaysRemaining(expiration, now)
	switch {
	case days < 0:
		return models.StatusExpired
	case days <= ExpiringSoonDays:
		return models.StatusExpiringSoon
	default:
		return models.StatusAvailable
	}
}

func IsFree(price float64) bool {
	return price == 0
}

// RefreshStatus returns a copy of p with its status derived as of now.
// The stored snapshot is untouched.
func RefreshStatus(p models.Product, now time.Time) models.Product {
	p.Status = DeriveStatus(p.ExpirationDate, now)
	p.IsFree = IsFree(p.Price)
	return p
}

func decorate(products []models.Product) {
	for i := range products {
		products[i].IsFree = IsFree(products[i].Price)
	}
}
