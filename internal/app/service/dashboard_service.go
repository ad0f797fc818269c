package service

import (
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/util"
)

const (
	dashboardDays        = 7
	dashboardTopProducts = 5
)

type DailySales struct {
	Date  string  `json:"date"`
	Total float64 `json:"total"`
}

type DashboardOverview struct {
	TodaySales     float64                   `json:"today_sales"`
	PendingCount   int64                     `json:"pending_count"`
	PreparingCount int64                     `json:"preparing_count"`
	MonthSales     float64                   `json:"month_sales"`
	Last7Days      []DailySales              `json:"last_7_days"`
	TopProducts    []repository.ProductSales `json:"top_products"`
}

type DashboardService interface {
	Overview(storeID uint) (*DashboardOverview, error)
}

type dashboardService struct {
	orderRepo repository.OrderRepository
	now       func() time.Time
}

func NewDashboardService(orderRepo repository.OrderRepository) DashboardService {
	return &dashboardService{orderRepo: orderRepo, now: time.Now}
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (s *dashboardService) Overview(storeID uint) (*DashboardOverview, error) {
	now := s.now()
	today := startOfDay(now)
	tomorrow := today.AddDate(0, 0, 1)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	seriesStart := today.AddDate(0, 0, -(dashboardDays - 1))

	counts, err := s.orderRepo.CountByStatus(storeID)
	if err != nil {
		return nil, err
	}
	monthSales, err := s.orderRepo.SumTotal(storeID, monthStart, tomorrow)
	if err != nil {
		return nil, err
	}
	recent, err := s.orderRepo.FindWithFilter(repository.OrderFilter{
		StoreID: &storeID,
		From:    &seriesStart,
		To:      &tomorrow,
	})
	if err != nil {
		return nil, err
	}
	top, err := s.orderRepo.TopProducts(storeID, nil, nil, dashboardTopProducts)
	if err != nil {
		return nil, err
	}

	byDay := make(map[string]float64, dashboardDays)
	for _, o := range recent {
		if o.Status == model.OrderStatusCancelled {
			continue
		}
		byDay[o.CreatedAt.In(now.Location()).Format(DateLayout)] += o.Total
	}

	series := make([]DailySales, 0, dashboardDays)
	for i := 0; i < dashboardDays; i++ {
		day := seriesStart.AddDate(0, 0, i).Format(DateLayout)
		series = append(series, DailySales{Date: day, Total: util.RoundCents(byDay[day])})
	}

	if top == nil {
		top = []repository.ProductSales{}
	}
	return &DashboardOverview{
		TodaySales:     series[len(series)-1].Total,
		PendingCount:   counts[model.OrderStatusPending],
		PreparingCount: counts[model.OrderStatusPreparing],
		MonthSales:     util.RoundCents(monthSales),
		Last7Days:      series,
		TopProducts:    top,
	}, nil
}
