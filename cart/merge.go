package cart

import (
	"log"
	"os"
	"strconv"

	"emporia/models"
)

// DefaultMaxQuantity caps a single cart line. Override with
// MAX_CART_QUANTITY.
const DefaultMaxQuantity = 99

var maxQuantity = loadMaxQuantity()

func loadMaxQuantity() int {
	if s := os.Getenv("MAX_CART_QUANTITY"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n >= 1 {
			return n
		}
	}
	return DefaultMaxQuantity
}

// ClampQuantity forces a quantity into [1, maxQuantity].
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	if q > maxQuantity {
		return maxQuantity
	}
	return q
}

// SameSelection reports whether two attribute selections are identical.
// Nil and empty maps compare equal.
func SameSelection(a, b map[string]string) bool {
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}

// findLine locates the cart line with the compound (product, selection)
// identity, or -1.
func findLine(items []models.CartItem, productID string, attrs map[string]string) int {
	for i, item := range items {
		if item.ProductID == productID && SameSelection(item.Attributes, attrs) {
			return i
		}
	}
	return -1
}

// MergeGuestItems folds a guest cart snapshot into the user's persisted
// lines. Items without a product id, or whose product no longer exists, are
// skipped with a log line; quantities on matching lines are summed and
// clamped. A bad guest item never aborts the batch.
func MergeGuestItems(userItems []models.CartItem, guestItems []models.GuestCartItem, productExists map[string]bool) []models.CartItem {
	merged := make([]models.CartItem, len(userItems))
	copy(merged, userItems)

	for _, guest := range guestItems {
		if guest.ProductID == "" {
			log.Println("Skipping guest cart item without product id")
			continue
		}
		if !productExists[guest.ProductID] {
			log.Printf("Product %s no longer exists, skipping guest cart item", guest.ProductID)
			continue
		}

		quantity := guest.Quantity
		if quantity < 1 {
			quantity = 1
		}

		if i := findLine(merged, guest.ProductID, guest.Attributes); i >= 0 {
			merged[i].Quantity = ClampQuantity(merged[i].Quantity + quantity)
			continue
		}
		merged = append(merged, models.CartItem{
			ProductID:  guest.ProductID,
			Quantity:   ClampQuantity(quantity),
			Attributes: guest.Attributes,
		})
	}
	return merged
}
