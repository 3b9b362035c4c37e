package engine

import (
	"errors"
	"fmt"

	"blackphoenix/internal/models"
)

var ErrUnknownRule = errors.New("unknown revenue rule")

// RevenueRule names the status/payment combination counted as realized revenue.
type RevenueRule string

const (
	RuleDeliveredPaid RevenueRule = "delivered_paid"
	RuleConfirmedPaid RevenueRule = "confirmed_paid"
	RulePaid          RevenueRule = "paid"
	RuleAll           RevenueRule = "all"
)

func ParseRevenueRule(s string) (RevenueRule, error) {
	switch r := RevenueRule(s); r {
	case RuleDeliveredPaid, RuleConfirmedPaid, RulePaid, RuleAll:
		return r, nil
	case "":
		return RuleDeliveredPaid, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownRule, s)
	}
}

// Query returns the backend filter matching the rule; empty values mean no
// filter on that field.
func (r RevenueRule) Query() (models.OrderStatus, models.PaymentStatus) {
	switch r {
	case RuleDeliveredPaid:
		return models.StatusDelivered, models.PaymentPaid
	case RuleConfirmedPaid:
		return models.StatusConfirmed, models.PaymentPaid
	case RulePaid:
		return "", models.PaymentPaid
	default:
		return "", ""
	}
}

func (r RevenueRule) Recognizes(o models.OrderRecord) bool {
	status, payment := r.Query()
	if status != "" && o.Status != status {
		return false
	}
	if payment != "" && o.PaymentStatus != payment {
		return false
	}
	return true
}

// Filter returns the recognized subset in input order. The input is not
// modified.
func (r RevenueRule) Filter(orders []models.OrderRecord) []models.OrderRecord {
	out := make([]models.OrderRecord, 0, len(orders))
	for _, o := range orders {
		if r.Recognizes(o) {
			out = append(out, o)
		}
	}
	return out
}
