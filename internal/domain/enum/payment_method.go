package enum

import (
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod is a label only. No payment is processed by the counter.
type PaymentMethod int

const (
	PaymentMethodNone PaymentMethod = 0
	PaymentMethodCash PaymentMethod = 1
	PaymentMethodCard PaymentMethod = 2
)

func (p PaymentMethod) String() string {
	switch p {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodCard:
		return "Card"
	default:
		return ""
	}
}

func (p PaymentMethod) IsSelected() bool {
	return p == PaymentMethodCash || p == PaymentMethodCard
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return PaymentMethodNone, nil
	case "cash":
		return PaymentMethodCash, nil
	case "card":
		return PaymentMethodCard, nil
	}
	return PaymentMethodNone, fmt.Errorf("unknown payment method %q", s)
}

func (p PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		if i < int(PaymentMethodNone) || i > int(PaymentMethodCard) {
			return fmt.Errorf("unknown payment method %d", i)
		}
		*p = PaymentMethod(i)
		return nil
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
