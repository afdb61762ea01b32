package travel

import (
	"sort"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// maxMergedHotels bounds the merged accommodation list handed downstream.
const maxMergedHotels = 10

// unparseablePrice sorts listings whose price string is not numeric after
// every priced listing.
const unparseablePrice = 9999

// hotelKey is the merge identity of a listing: its name lowercased and
// trimmed, so "HOTEL SACHER " and "Hotel Sacher" collapse into one entry.
func hotelKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// priceValue parses a listing price for ordering. The sentinel and
// anything non-numeric rank last among equals.
func priceValue(price string) float64 {
	if price == "" || price == domain.PriceUnavailable {
		return unparseablePrice
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(price), 64)
	if err != nil {
		return unparseablePrice
	}
	return v
}

// MergeHotels combines variety listings (names, addresses, ratings) with
// pricing listings (prices, room types) into a single ranked list.
//
// Listings from the two sources are matched by normalized name. A matched
// pair contributes the variety side's descriptive fields and the pricing
// side's commercial fields; unmatched listings from either source pass
// through as-is. The result is ordered priced-first, then by rating
// descending, then by price ascending, and truncated to ten entries.
func MergeHotels(variety, priced []domain.Hotel) []domain.Hotel {
	pricedByKey := lo.KeyBy(priced, func(h domain.Hotel) string {
		return hotelKey(h.Name)
	})

	merged := make([]domain.Hotel, 0, len(variety)+len(priced))
	seen := map[string]bool{}

	for _, h := range variety {
		key := hotelKey(h.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true

		if p, ok := pricedByKey[key]; ok {
			h.HotelID = p.HotelID
			h.Price = p.Price
			h.Currency = p.Currency
			h.RoomType = p.RoomType
			h.HasPricing = p.HasPricing
			h.Source = "merged"
		}
		merged = append(merged, h)
	}

	for _, h := range priced {
		key := hotelKey(h.Name)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		merged = append(merged, h)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		a, b := merged[i], merged[j]
		if a.HasPricing != b.HasPricing {
			return a.HasPricing
		}
		if a.Rating != b.Rating {
			return a.Rating > b.Rating
		}
		return priceValue(a.Price) < priceValue(b.Price)
	})

	if len(merged) > maxMergedHotels {
		merged = merged[:maxMergedHotels]
	}
	return merged
}
