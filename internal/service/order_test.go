package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/ordertally/ordertally/internal/api/dto"
	"github.com/ordertally/ordertally/internal/config"
	"github.com/ordertally/ordertally/internal/domain/order"
	ierr "github.com/ordertally/ordertally/internal/errors"
	"github.com/ordertally/ordertally/internal/logger"
	"github.com/ordertally/ordertally/internal/testutil"
)

type OrderServiceSuite struct {
	suite.Suite
	ctx          context.Context
	cfg          *config.Configuration
	orderRepo    *testutil.InMemoryOrderStore
	orderService OrderService
}

func TestOrderService(t *testing.T) {
	suite.Run(t, new(OrderServiceSuite))
}

func (s *OrderServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.cfg = config.GetDefaultConfig()
	s.orderRepo = testutil.NewInMemoryOrderStore()

	log, err := logger.NewLogger(s.cfg)
	s.Require().NoError(err)

	s.orderService = NewOrderService(s.orderRepo, s.cfg, log)
}

func (s *OrderServiceSuite) createOrder(currency string) *dto.OrderResponse {
	resp, err := s.orderService.CreateOrder(s.ctx, dto.CreateOrderRequest{
		CustomerID: "cust_1",
		Currency:   currency,
	})
	s.Require().NoError(err)
	return resp
}

func (s *OrderServiceSuite) TestCreateOrder() {
	resp := s.createOrder("eur")

	s.NotEmpty(resp.ID)
	s.Equal("eur", resp.Currency)
	s.Equal("0", resp.AmountToBill)
	s.Equal(0, resp.Version)
	s.Empty(resp.LineItems)
}

func (s *OrderServiceSuite) TestCreateOrderDefaultCurrency() {
	resp := s.createOrder("")
	s.Equal(s.cfg.Order.DefaultCurrency, resp.Currency)
}

func (s *OrderServiceSuite) TestCreateOrderUnsupportedCurrency() {
	resp, err := s.orderService.CreateOrder(s.ctx, dto.CreateOrderRequest{Currency: "zzz"})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsValidation(err))
}

func (s *OrderServiceSuite) TestAddLineItem() {
	created := s.createOrder("usd")

	resp, err := s.orderService.AddLineItem(s.ctx, created.ID, dto.AddLineItemRequest{
		LineItemID:  "item-0",
		DisplayName: "Pro plan",
		Amount:      "2.00",
		Quantity:    2,
	})
	s.Require().NoError(err)

	s.Equal("2", resp.AmountToBill)
	s.Require().Len(resp.LineItems, 1)
	s.Equal("item-0", resp.LineItems[0].ID)
	s.Equal("Pro plan", resp.LineItems[0].DisplayName)
	s.Equal(2, resp.LineItems[0].Quantity)
	s.Equal(1, resp.Version)

	version, ok := s.orderRepo.Version(created.ID)
	s.True(ok)
	s.Equal(1, version)
}

func (s *OrderServiceSuite) TestAddLineItemGeneratesID() {
	created := s.createOrder("usd")

	resp, err := s.orderService.AddLineItem(s.ctx, created.ID, dto.AddLineItemRequest{
		Amount: "1.00",
	})
	s.Require().NoError(err)
	s.Require().Len(resp.LineItems, 1)
	s.NotEmpty(resp.LineItems[0].ID)
}

func (s *OrderServiceSuite) TestAddLineItemDuplicate() {
	created := s.createOrder("usd")

	req := dto.AddLineItemRequest{LineItemID: "item-0", Amount: "2.00"}
	_, err := s.orderService.AddLineItem(s.ctx, created.ID, req)
	s.Require().NoError(err)

	resp, err := s.orderService.AddLineItem(s.ctx, created.ID, req)
	s.Error(err)
	s.Nil(resp)
	s.True(errors.Is(err, order.ErrDuplicateLineItem))
	s.True(ierr.IsAlreadyExists(err))

	// the stored order still reflects only the first add
	got, err := s.orderService.GetOrder(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("2", got.AmountToBill)
	s.Len(got.LineItems, 1)
}

func (s *OrderServiceSuite) TestAddLineItemNegativeAmount() {
	created := s.createOrder("usd")

	resp, err := s.orderService.AddLineItem(s.ctx, created.ID, dto.AddLineItemRequest{
		LineItemID: "item-0",
		Amount:     "-1",
	})
	s.Error(err)
	s.Nil(resp)
	s.True(errors.Is(err, order.ErrInvalidAmount))
	s.True(ierr.IsValidation(err))

	got, err := s.orderService.GetOrder(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("0", got.AmountToBill)
	s.Empty(got.LineItems)
}

func (s *OrderServiceSuite) TestAddLineItemMissingAmount() {
	created := s.createOrder("usd")

	_, err := s.orderService.AddLineItem(s.ctx, created.ID, dto.AddLineItemRequest{LineItemID: "item-0"})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *OrderServiceSuite) TestChangeLineItemAmount() {
	created := s.createOrder("usd")
	_, err := s.orderService.AddLineItem(s.ctx, created.ID, dto.AddLineItemRequest{
		LineItemID: "item-0",
		Amount:     "2.00",
	})
	s.Require().NoError(err)

	resp, err := s.orderService.ChangeLineItemAmount(s.ctx, created.ID, "item-0", dto.ChangeLineItemAmountRequest{
		Amount: "3.00",
	})
	s.Require().NoError(err)
	s.Equal("3", resp.AmountToBill)
	s.Equal("3", resp.LineItems[0].Amount)
	s.Equal(2, resp.Version)
}

func (s *OrderServiceSuite) TestChangeLineItemAmountUnknownItem() {
	created := s.createOrder("usd")

	resp, err := s.orderService.ChangeLineItemAmount(s.ctx, created.ID, "item-99", dto.ChangeLineItemAmountRequest{
		Amount: "5.00",
	})
	s.Error(err)
	s.Nil(resp)
	s.True(errors.Is(err, order.ErrLineItemNotFound))
	s.True(ierr.IsNotFound(err))
}

func (s *OrderServiceSuite) TestGetOrderNotFound() {
	resp, err := s.orderService.GetOrder(s.ctx, "ord_missing")
	s.Error(err)
	s.Nil(resp)
	s.True(errors.Is(err, order.ErrOrderNotFound))
	s.True(ierr.IsNotFound(err))
}

// conflictingOrderStore fails the first conflicts Save calls with a version
// conflict, simulating concurrent writers racing the service.
type conflictingOrderStore struct {
	*testutil.InMemoryOrderStore
	conflicts int
}

func (s *conflictingOrderStore) Save(ctx context.Context, o *order.Order, expectedVersion int) error {
	if s.conflicts > 0 {
		s.conflicts--
		return ierr.NewError("order was modified concurrently").
			WithHint("Retry with the latest version").
			Mark(ierr.ErrVersionConflict)
	}
	return s.InMemoryOrderStore.Save(ctx, o, expectedVersion)
}

func (s *OrderServiceSuite) TestAddLineItemRetriesOnVersionConflict() {
	repo := &conflictingOrderStore{InMemoryOrderStore: s.orderRepo}

	log, err := logger.NewLogger(s.cfg)
	s.Require().NoError(err)
	svc := NewOrderService(repo, s.cfg, log)

	created := s.createOrder("usd")
	repo.conflicts = s.cfg.Order.MaxSaveAttempts - 1

	resp, err := svc.AddLineItem(s.ctx, created.ID, dto.AddLineItemRequest{
		LineItemID: "item-0",
		Amount:     "2.00",
	})
	s.Require().NoError(err)
	s.Equal("2", resp.AmountToBill)
	s.Zero(repo.conflicts)
}

func (s *OrderServiceSuite) TestAddLineItemGivesUpAfterMaxAttempts() {
	repo := &conflictingOrderStore{InMemoryOrderStore: s.orderRepo}

	log, err := logger.NewLogger(s.cfg)
	s.Require().NoError(err)
	svc := NewOrderService(repo, s.cfg, log)

	created := s.createOrder("usd")
	repo.conflicts = s.cfg.Order.MaxSaveAttempts

	resp, err := svc.AddLineItem(s.ctx, created.ID, dto.AddLineItemRequest{
		LineItemID: "item-0",
		Amount:     "2.00",
	})
	s.Error(err)
	s.Nil(resp)
	s.True(ierr.IsVersionConflict(err))

	// the stored order is untouched
	got, err := s.orderService.GetOrder(s.ctx, created.ID)
	s.Require().NoError(err)
	s.Equal("0", got.AmountToBill)
	s.Empty(got.LineItems)
}
