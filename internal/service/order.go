package service

import (
	"context"

	"github.com/ordertally/ordertally/internal/api/dto"
	"github.com/ordertally/ordertally/internal/config"
	"github.com/ordertally/ordertally/internal/domain/order"
	ierr "github.com/ordertally/ordertally/internal/errors"
	"github.com/ordertally/ordertally/internal/logger"
)

type OrderService interface {
	CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error)
	GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error)
	AddLineItem(ctx context.Context, orderID string, req dto.AddLineItemRequest) (*dto.OrderResponse, error)
	ChangeLineItemAmount(ctx context.Context, orderID string, lineItemID string, req dto.ChangeLineItemAmountRequest) (*dto.OrderResponse, error)
}

type orderService struct {
	repo   order.Repository
	cfg    *config.Configuration
	logger *logger.Logger
}

func NewOrderService(repo order.Repository, cfg *config.Configuration, logger *logger.Logger) OrderService {
	return &orderService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

func (s *orderService) CreateOrder(ctx context.Context, req dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	o := req.ToOrder(s.cfg.Order.DefaultCurrency)

	if err := s.repo.Create(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Infow("created order", "order_id", o.ID, "currency", o.Currency)
	return dto.NewOrderResponse(o), nil
}

func (s *orderService) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	return dto.NewOrderResponse(o), nil
}

func (s *orderService) AddLineItem(ctx context.Context, orderID string, req dto.AddLineItemRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	item, err := req.ToLineItem()
	if err != nil {
		return nil, err
	}

	o, err := s.commit(ctx, orderID, func(current *order.Order) (*order.Order, error) {
		return current.AddLineItem(item)
	})
	if err != nil {
		return nil, err
	}

	return dto.NewOrderResponse(o), nil
}

func (s *orderService) ChangeLineItemAmount(ctx context.Context, orderID string, lineItemID string, req dto.ChangeLineItemAmountRequest) (*dto.OrderResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	amount, err := req.ToAmount()
	if err != nil {
		return nil, err
	}

	o, err := s.commit(ctx, orderID, func(current *order.Order) (*order.Order, error) {
		return current.ChangeLineItemAmount(lineItemID, amount)
	})
	if err != nil {
		return nil, err
	}

	return dto.NewOrderResponse(o), nil
}

// commit runs the read-transform-save loop against the repository. The
// aggregate transform is pure, so on a version conflict the whole loop can
// simply re-read and reapply it until it lands or the attempt budget runs out.
func (s *orderService) commit(ctx context.Context, orderID string, transform func(*order.Order) (*order.Order, error)) (*order.Order, error) {
	var lastErr error

	for attempt := 1; attempt <= s.cfg.Order.MaxSaveAttempts; attempt++ {
		current, err := s.repo.Get(ctx, orderID)
		if err != nil {
			return nil, err
		}

		next, err := transform(current)
		if err != nil {
			return nil, err
		}

		if err := s.repo.Save(ctx, next, current.Version); err != nil {
			if ierr.IsVersionConflict(err) {
				lastErr = err
				s.logger.Warnw("order save hit version conflict, retrying",
					"order_id", orderID,
					"attempt", attempt,
					"max_attempts", s.cfg.Order.MaxSaveAttempts,
				)
				continue
			}
			return nil, err
		}

		next.Version = current.Version + 1
		return next, nil
	}

	return nil, lastErr
}
