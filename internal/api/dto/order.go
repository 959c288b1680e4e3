package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ordertally/ordertally/internal/domain/order"
	ierr "github.com/ordertally/ordertally/internal/errors"
	"github.com/ordertally/ordertally/internal/types"
	"github.com/ordertally/ordertally/internal/validator"
)

type CreateOrderRequest struct {
	CustomerID string `json:"customer_id"`
	Currency   string `json:"currency" validate:"omitempty,len=3"`
}

type AddLineItemRequest struct {
	// LineItemID is optional; a ULID is generated when empty
	LineItemID  string `json:"line_item_id"`
	DisplayName string `json:"display_name"`
	Amount      string `json:"amount" validate:"required"`
	Quantity    int    `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

type ChangeLineItemAmountRequest struct {
	Amount string `json:"amount" validate:"required"`
}

type LineItemResponse struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name,omitempty"`
	Quantity    int    `json:"quantity"`
	Amount      string `json:"amount"`
	Currency    string `json:"currency,omitempty"`
}

type OrderResponse struct {
	ID           string             `json:"id"`
	CustomerID   string             `json:"customer_id,omitempty"`
	Currency     string             `json:"currency"`
	AmountToBill string             `json:"amount_to_bill"`
	LineItems    []LineItemResponse `json:"line_items,omitempty"`
	Version      int                `json:"version"`
	CreatedAt    string             `json:"created_at"`
	UpdatedAt    string             `json:"updated_at"`
}

func (r *CreateOrderRequest) Validate() error {
	if err := validator.ValidateRequest(r); err != nil {
		return err
	}

	if r.Currency != "" && !types.IsValidCurrency(r.Currency) {
		return ierr.NewError("unsupported currency").
			WithHintf("Currency %s is not supported", r.Currency).
			Mark(ierr.ErrValidation)
	}

	return nil
}

// ToOrder builds an empty order from the request
func (r *CreateOrderRequest) ToOrder(defaultCurrency string) *order.Order {
	currency := r.Currency
	if currency == "" {
		currency = defaultCurrency
	}
	return order.New(types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER), r.CustomerID, currency)
}

func (r *AddLineItemRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToLineItem builds a line item from the request
func (r *AddLineItemRequest) ToLineItem() (*order.LineItem, error) {
	amount, err := types.ParseAmount(r.Amount)
	if err != nil {
		return nil, err
	}

	units := r.Quantity
	if units == 0 {
		units = 1
	}
	quantity, err := types.NewQuantity(units)
	if err != nil {
		return nil, err
	}

	id := r.LineItemID
	if id == "" {
		id = types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORDER_LINE_ITEM)
	}

	return &order.LineItem{
		ID:          id,
		DisplayName: types.ToNillableString(r.DisplayName),
		Quantity:    quantity,
		Amount:      amount,
	}, nil
}

func (r *ChangeLineItemAmountRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToAmount parses the requested amount
func (r *ChangeLineItemAmountRequest) ToAmount() (decimal.Decimal, error) {
	return types.ParseAmount(r.Amount)
}

func NewOrderResponse(o *order.Order) *OrderResponse {
	resp := &OrderResponse{
		ID:           o.ID,
		CustomerID:   o.CustomerID,
		Currency:     o.Currency,
		AmountToBill: types.FormatAmountToString(o.AmountToBill),
		Version:      o.Version,
		CreatedAt:    o.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    o.UpdatedAt.Format(time.RFC3339),
	}

	if len(o.LineItems) > 0 {
		resp.LineItems = make([]LineItemResponse, len(o.LineItems))
		for i, item := range o.LineItems {
			resp.LineItems[i] = LineItemResponse{
				ID:          item.ID,
				DisplayName: types.FromNillableString(item.DisplayName),
				Quantity:    item.Quantity.Units(),
				Amount:      types.FormatAmountToString(item.Amount),
				Currency:    item.Currency,
			}
		}
	}

	return resp
}
