package services

import (
	"context"
	"log"
	"time"

	"print_shop_sync/internal/cache"
	"print_shop_sync/internal/models"
	"print_shop_sync/internal/repository"
)

type OrderService interface {
	ListOrders(ctx context.Context, filters models.OrderFilters, limit, offset int) ([]models.Order, error)
	GetOrderByID(ctx context.Context, id string) (*models.Order, error)
	UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error)
	GetStats(ctx context.Context) (*models.OrderStats, error)
}

type orderService struct {
	orderRepo repository.OrderRepository
	cache     *cache.Client
	statsTTL  time.Duration
}

func NewOrderService(orderRepo repository.OrderRepository, cacheClient *cache.Client, statsTTL time.Duration) OrderService {
	return &orderService{orderRepo: orderRepo, cache: cacheClient, statsTTL: statsTTL}
}

func (s *orderService) ListOrders(ctx context.Context, filters models.OrderFilters, limit, offset int) ([]models.Order, error) {
	return s.orderRepo.List(ctx, filters, limit, offset)
}

func (s *orderService) GetOrderByID(ctx context.Context, id string) (*models.Order, error) {
	return s.orderRepo.GetByID(ctx, id)
}

func (s *orderService) UpdateOrder(ctx context.Context, id string, update models.OrderUpdate) (*models.Order, error) {
	order, err := s.orderRepo.UpdateOperatorFields(ctx, id, update)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.InvalidateOrderStats(ctx); err != nil {
			log.Printf("failed to invalidate stats cache: %v", err)
		}
	}
	return order, nil
}

func (s *orderService) GetStats(ctx context.Context) (*models.OrderStats, error) {
	if s.cache != nil {
		if stats, err := s.cache.GetOrderStats(ctx); err == nil {
			return stats, nil
		}
	}

	stats, err := s.orderRepo.Stats(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetOrderStats(ctx, stats, s.statsTTL); err != nil {
			log.Printf("failed to cache order stats: %v", err)
		}
	}
	return stats, nil
}
