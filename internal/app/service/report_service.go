package service

import (
	"errors"
	"sort"
	"strconv"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/util"
)

type ReportType string
type ReportRange string

const (
	ReportSales      ReportType = "sales"
	ReportProducts   ReportType = "products"
	ReportCategories ReportType = "categories"

	RangeToday     ReportRange = "today"
	RangeYesterday ReportRange = "yesterday"
	RangeWeek      ReportRange = "week"
	RangeMonth     ReportRange = "month"
	RangeCustom    ReportRange = "custom"
)

const uncategorized = "Sem categoria"

var (
	ErrUnknownReport = errors.New("unknown report type")
	ErrInvalidRange  = errors.New("invalid report range")
)

func (t ReportType) Valid() bool {
	return t == ReportSales || t == ReportProducts || t == ReportCategories
}

type ReportQuery struct {
	Type  ReportType
	Range ReportRange
	Start string // DateLayout, custom range only
	End   string // DateLayout, inclusive
}

type ReportSummary struct {
	OrderCount    int     `json:"order_count"`
	TotalAmount   float64 `json:"total_amount"`
	AverageTicket float64 `json:"average_ticket"`
}

type SalesRow struct {
	Date     time.Time         `json:"date"`
	OrderID  uint              `json:"order_id"`
	Customer string            `json:"customer"`
	Status   model.OrderStatus `json:"status"`
	Total    float64           `json:"total"`
}

// ItemRow aggregates sold items by product or by category
type ItemRow struct {
	Name         string  `json:"name"`
	Quantity     int64   `json:"quantity"`
	Total        float64 `json:"total"`
	AveragePrice float64 `json:"average_price"`
}

type Report struct {
	Type         ReportType                `json:"type"`
	Range        ReportRange               `json:"range"`
	From         time.Time                 `json:"from"`
	To           time.Time                 `json:"to"`
	Summary      ReportSummary             `json:"summary"`
	StatusCounts map[model.OrderStatus]int `json:"status_counts"`
	Sales        []SalesRow                `json:"sales,omitempty"`
	Items        []ItemRow                 `json:"items,omitempty"`
}

type ReportService interface {
	Build(storeID uint, query ReportQuery) (*Report, error)
}

type reportService struct {
	orderRepo    repository.OrderRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

func NewReportService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
) ReportService {
	return &reportService{
		orderRepo:    orderRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		now:          time.Now,
	}
}

// resolveRange returns the half-open interval [from, to) of a range
func resolveRange(now time.Time, query ReportQuery) (time.Time, time.Time, error) {
	today := startOfDay(now)
	switch query.Range {
	case "", RangeToday:
		return today, today.AddDate(0, 0, 1), nil
	case RangeYesterday:
		return today.AddDate(0, 0, -1), today, nil
	case RangeWeek:
		return today.AddDate(0, 0, -7), now, nil
	case RangeMonth:
		return today.AddDate(0, -1, 0), now, nil
	case RangeCustom:
		start, err := time.ParseInLocation(DateLayout, query.Start, now.Location())
		if err != nil {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		end, err := time.ParseInLocation(DateLayout, query.End, now.Location())
		if err != nil || end.Before(start) {
			return time.Time{}, time.Time{}, ErrInvalidRange
		}
		return start, end.AddDate(0, 0, 1), nil
	}
	return time.Time{}, time.Time{}, ErrInvalidRange
}

func (s *reportService) Build(storeID uint, query ReportQuery) (*Report, error) {
	if !query.Type.Valid() {
		return nil, ErrUnknownReport
	}
	from, to, err := resolveRange(s.now(), query)
	if err != nil {
		return nil, err
	}
	if query.Range == "" {
		query.Range = RangeToday
	}

	orders, err := s.orderRepo.FindWithFilter(repository.OrderFilter{StoreID: &storeID, From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	report := &Report{
		Type:         query.Type,
		Range:        query.Range,
		From:         from,
		To:           to,
		StatusCounts: make(map[model.OrderStatus]int, len(model.OrderStatuses)),
	}
	for _, st := range model.OrderStatuses {
		report.StatusCounts[st] = 0
	}

	// cancelled orders are counted by status only
	var sold []model.Order
	for _, o := range orders {
		report.StatusCounts[o.Status]++
		if o.Status != model.OrderStatusCancelled {
			sold = append(sold, o)
			report.Summary.TotalAmount += o.Total
		}
	}
	report.Summary.OrderCount = len(sold)
	report.Summary.TotalAmount = util.RoundCents(report.Summary.TotalAmount)
	if len(sold) > 0 {
		report.Summary.AverageTicket = util.RoundCents(report.Summary.TotalAmount / float64(len(sold)))
	}

	switch query.Type {
	case ReportSales:
		report.Sales = make([]SalesRow, 0, len(orders))
		for _, o := range orders {
			report.Sales = append(report.Sales, SalesRow{
				Date:     o.CreatedAt,
				OrderID:  o.ID,
				Customer: o.CustomerName,
				Status:   o.Status,
				Total:    o.Total,
			})
		}
	case ReportProducts:
		report.Items = aggregateItems(sold, func(item model.OrderItem) string { return item.Name })
	case ReportCategories:
		names, err := s.categoryNames(storeID)
		if err != nil {
			return nil, err
		}
		report.Items = aggregateItems(sold, func(item model.OrderItem) string {
			if name, ok := names[item.ProductID]; ok {
				return name
			}
			return uncategorized
		})
	}
	return report, nil
}

// categoryNames maps product id to its category name
func (s *reportService) categoryNames(storeID uint) (map[uint]string, error) {
	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{StoreID: &storeID})
	if err != nil {
		return nil, err
	}
	names := make(map[uint]string, len(products))
	for _, p := range products {
		if p.Category != nil {
			names[p.ID] = p.Category.Name
		}
	}
	return names, nil
}

func aggregateItems(orders []model.Order, key func(model.OrderItem) string) []ItemRow {
	index := make(map[string]int)
	rows := []ItemRow{}
	for _, o := range orders {
		for _, item := range o.Items {
			k := key(item)
			i, ok := index[k]
			if !ok {
				i = len(rows)
				index[k] = i
				rows = append(rows, ItemRow{Name: k})
			}
			rows[i].Quantity += int64(item.Quantity)
			rows[i].Total += item.LineTotal
		}
	}
	for i := range rows {
		rows[i].Total = util.RoundCents(rows[i].Total)
		if rows[i].Quantity > 0 {
			rows[i].AveragePrice = util.RoundCents(rows[i].Total / float64(rows[i].Quantity))
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].Quantity != rows[j].Quantity {
			return rows[i].Quantity > rows[j].Quantity
		}
		return rows[i].Name < rows[j].Name
	})
	return rows
}

// Table flattens the report rows for file export
func (r *Report) Table() ([]string, [][]string) {
	if r.Type == ReportSales {
		header := []string{"Data", "Pedido", "Cliente", "Status", "Valor"}
		rows := make([][]string, 0, len(r.Sales))
		for _, s := range r.Sales {
			rows = append(rows, []string{
				s.Date.Format("02/01/2006 15:04"),
				"#" + strconv.FormatUint(uint64(s.OrderID), 10),
				s.Customer,
				s.Status.Label(),
				util.FormatBRL(s.Total),
			})
		}
		return header, rows
	}

	first := "Produto"
	if r.Type == ReportCategories {
		first = "Categoria"
	}
	header := []string{first, "Quantidade", "Valor Total", "Média"}
	rows := make([][]string, 0, len(r.Items))
	for _, it := range r.Items {
		rows = append(rows, []string{
			it.Name,
			strconv.FormatInt(it.Quantity, 10),
			util.FormatBRL(it.Total),
			util.FormatBRL(it.AveragePrice),
		})
	}
	return header, rows
}
