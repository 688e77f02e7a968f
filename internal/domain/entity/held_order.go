package entity

import (
	"strconv"
	"strings"

	"github.com/sangkips/billing-counter/internal/domain/enum"
)

const (
	heldPrefix        = "H"
	firstHeldSequence = 1001
)

// HeldOrder is a parked cart waiting to be resumed. Discount and payment
// method are not kept.
type HeldOrder struct {
	ID            int64          `json:"id"`
	Customer      string         `json:"customer"`
	Server        string         `json:"server"`
	OrderType     enum.OrderType `json:"orderType"`
	Items         []CartLine     `json:"items"`
	Date          string         `json:"date"`
	DisplayNumber string         `json:"displayNumber"`
}

// NextHeldDisplayNumber returns "H" followed by one more than the highest
// sequence already in use, or H1001 when there is none.
func NextHeldDisplayNumber(existing []HeldOrder) string {
	if len(existing) == 0 {
		return heldPrefix + strconv.Itoa(firstHeldSequence)
	}
	highest := 0
	for _, h := range existing {
		n, err := strconv.Atoi(strings.TrimPrefix(h.DisplayNumber, heldPrefix))
		if err == nil && n > highest {
			highest = n
		}
	}
	return heldPrefix + strconv.Itoa(highest+1)
}
