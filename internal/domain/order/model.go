package order

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"

	ierr "github.com/ordertally/ordertally/internal/errors"
)

// Order is the aggregate root for a customer order. It exclusively owns its
// line items and the derived AmountToBill, which always equals the sum of the
// line item amounts. Operations never mutate the receiver: each success
// returns a new consistent Order value and each failure leaves the input
// untouched, so any number of readers may share an Order without coordination.
type Order struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id,omitempty"`
	Currency     string          `json:"currency"`
	AmountToBill decimal.Decimal `json:"amount_to_bill"`
	LineItems    []*LineItem     `json:"line_items,omitempty"`
	// Version is the optimistic concurrency token. The aggregate never
	// touches it, the repository does on every successful Save.
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// New returns an empty order with no line items and a zero total
func New(id, customerID, currency string) *Order {
	now := time.Now().UTC()
	return &Order{
		ID:           id,
		CustomerID:   customerID,
		Currency:     strings.ToLower(currency),
		AmountToBill: decimal.Zero,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// AddLineItem returns a new Order containing item. It fails with
// ErrDuplicateLineItem when the item id already exists, ErrInvalidAmount when
// the amount is negative and ErrCurrencyMismatch when the item carries a
// different currency. The receiver is never modified.
func (o *Order) AddLineItem(item *LineItem) (*Order, error) {
	if item == nil {
		return nil, ierr.NewError("line item is required").
			WithHint("Line item cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := item.Validate(); err != nil {
		return nil, err
	}

	if item.Currency != "" && !strings.EqualFold(item.Currency, o.Currency) {
		return nil, ierr.WithError(ErrCurrencyMismatch).
			WithHintf("Line item currency %s does not match order currency %s", item.Currency, o.Currency).
			Mark(ierr.ErrValidation)
	}

	if o.hasLineItem(item.ID) {
		return nil, ierr.WithError(ErrDuplicateLineItem).
			WithHintf("Line item %s already exists in order %s", item.ID, o.ID).
			Mark(ierr.ErrAlreadyExists)
	}

	next := o.Clone()
	added := item.Clone()
	if added.Currency == "" {
		added.Currency = o.Currency
	}
	next.LineItems = append(next.LineItems, added)
	next.recalculate()
	return next, nil
}

// ChangeLineItemAmount returns a new Order with the amount of one line item
// replaced. It fails with ErrLineItemNotFound for an unknown id and
// ErrInvalidAmount for a negative amount. The receiver is never modified.
func (o *Order) ChangeLineItemAmount(id string, amount decimal.Decimal) (*Order, error) {
	if amount.IsNegative() {
		return nil, ierr.WithError(ErrInvalidAmount).
			WithHintf("Line item amount must be non negative, got %s", amount).
			Mark(ierr.ErrValidation)
	}

	_, idx, found := lo.FindIndexOf(o.LineItems, func(item *LineItem) bool {
		return item.ID == id
	})
	if !found {
		return nil, ierr.WithError(ErrLineItemNotFound).
			WithHintf("Line item %s does not exist in order %s", id, o.ID).
			Mark(ierr.ErrNotFound)
	}

	next := o.Clone()
	next.LineItems[idx].Amount = amount
	next.recalculate()
	return next, nil
}

// TotalAmount returns the derived total, which equals the exact sum of the
// line item amounts
func (o *Order) TotalAmount() decimal.Decimal {
	return o.AmountToBill
}

// Clone returns a deep copy of the order, including its line items
func (o *Order) Clone() *Order {
	if o == nil {
		return nil
	}

	clone := *o
	if o.LineItems != nil {
		clone.LineItems = make([]*LineItem, len(o.LineItems))
		for i, item := range o.LineItems {
			clone.LineItems[i] = item.Clone()
		}
	}
	return &clone
}

// Validate checks the order invariants: non negative amounts, unique line
// item ids, matching currencies and a total equal to the sum of the items
func (o *Order) Validate() error {
	if o.AmountToBill.IsNegative() {
		return ierr.NewError("order validation failed").
			WithHint("Amount to bill must be non negative").
			Mark(ierr.ErrValidation)
	}

	seen := make(map[string]struct{}, len(o.LineItems))
	for _, item := range o.LineItems {
		if err := item.Validate(); err != nil {
			return err
		}
		if item.Currency != "" && !strings.EqualFold(item.Currency, o.Currency) {
			return ierr.WithError(ErrCurrencyMismatch).
				WithHintf("Line item %s currency must match order currency %s", item.ID, o.Currency).
				Mark(ierr.ErrValidation)
		}
		if _, ok := seen[item.ID]; ok {
			return ierr.WithError(ErrDuplicateLineItem).
				WithHintf("Line item %s appears more than once in order %s", item.ID, o.ID).
				Mark(ierr.ErrAlreadyExists)
		}
		seen[item.ID] = struct{}{}
	}

	if !o.AmountToBill.Equal(o.sumLineItems()) {
		return ierr.NewError("order validation failed").
			WithHint("Amount to bill must equal the sum of the line item amounts").
			Mark(ierr.ErrValidation)
	}

	return nil
}

func (o *Order) hasLineItem(id string) bool {
	return lo.SomeBy(o.LineItems, func(item *LineItem) bool {
		return item.ID == id
	})
}

// sumLineItems recomputes the total from the authoritative item list.
// Recomputation is the consistency strategy: there is no incremental
// delta path that could diverge from the true sum.
func (o *Order) sumLineItems() decimal.Decimal {
	return lo.Reduce(o.LineItems, func(sum decimal.Decimal, item *LineItem, _ int) decimal.Decimal {
		return sum.Add(item.Amount)
	}, decimal.Zero)
}

func (o *Order) recalculate() {
	o.AmountToBill = o.sumLineItems()
	o.UpdatedAt = time.Now().UTC()
}
