package labels

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/Kavirubc/gh-devpool/pkg/models"
)

// ErrInvalidPrice marks a price label whose amount is not a number
var ErrInvalidPrice = errors.New("invalid price label")

// DerivePriceLabel builds the devpool price label from partner labels.
// Partner "Price: X" becomes "Pricing: X" so the raw label never reaches the mirror.
func DerivePriceLabel(partner []models.Label) string {
	for _, l := range partner {
		if strings.HasPrefix(l.Name, PrefixPrice) {
			return PrefixPricing + strings.TrimSpace(strings.TrimPrefix(l.Name, PrefixPrice))
		}
	}
	for _, l := range partner {
		if strings.HasPrefix(l.Name, PrefixPricing) {
			return l.Name
		}
	}
	return PricingNotSet
}

// Price extracts the reward amount from a devpool label set.
// ok is false when no price is set; err wraps ErrInvalidPrice for malformed amounts.
func Price(labels []models.Label) (amount int, ok bool, err error) {
	name, found := models.FindPrefix(labels, PrefixPricing)
	if !found {
		return 0, false, nil
	}
	if name == PricingNotSet {
		return 0, false, nil
	}
	return ParseAmount(strings.TrimPrefix(name, PrefixPricing))
}

// ParseAmount parses the leading integer of a price suffix such as "50 USD"
func ParseAmount(raw string) (int, bool, error) {
	s := strings.TrimSpace(raw)
	end := strings.IndexFunc(s, func(r rune) bool { return !unicode.IsDigit(r) })
	if end == -1 {
		end = len(s)
	}
	if end == 0 {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false, fmt.Errorf("%w: %q", ErrInvalidPrice, raw)
	}
	return n, true, nil
}
