package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// OrderType says where the customer eats. It sticks across cart clears.
type OrderType int

const (
	OrderTypeEatIn    OrderType = 0
	OrderTypeTakeAway OrderType = 1
)

func (t OrderType) String() string {
	switch t {
	case OrderTypeTakeAway:
		return "Take Away"
	default:
		return "Eat In"
	}
}

// ParseOrderType accepts the display label as well as the compact forms the
// backend has used in older order records.
func ParseOrderType(s string) (OrderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "eat in", "eatin", "eat_in", "dine in", "":
		return OrderTypeEatIn, nil
	case "take away", "takeaway", "take_away", "takeout":
		return OrderTypeTakeAway, nil
	}
	return OrderTypeEatIn, fmt.Errorf("unknown order type %q", s)
}

func (t OrderType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *OrderType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i != int(OrderTypeEatIn) && i != int(OrderTypeTakeAway) {
			return fmt.Errorf("unknown order type %d", i)
		}
		*t = OrderType(i)
		return nil
	}
	parsed, err := ParseOrderType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
