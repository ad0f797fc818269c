package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/pkg/logger"
	"github.com/evoapps/confeitaria-backend/pkg/util"
	"gorm.io/gorm"
)

var (
	ErrEmptyOrder        = errors.New("order has no items")
	ErrInvalidTransition = errors.New("order status transition not allowed")
	ErrSupervisorStore   = errors.New("supervisor belongs to another store")
)

// DateLayout is the format of the date filter
const DateLayout = "2006-01-02"

// supervisors may authorize a PDV sale
var supervisorRoles = []model.UserRole{model.RoleAdmin, model.RoleOwner, model.RoleManager}

type OrderItemInput struct {
	ProductID uint
	Quantity  int
}

type OrderInput struct {
	ClientID        *uint
	CustomerName    string
	CustomerPhone   string
	DeliveryAddress string
	PickupTime      *time.Time
	Type            model.OrderType
	Notes           string
	Items           []OrderItemInput
}

type CheckoutInput struct {
	Order              OrderInput
	SupervisorLogin    string
	SupervisorPassword string
}

type OrderListOptions struct {
	Status   model.OrderStatus
	Date     string // DateLayout, local day
	Search   string
	ClientID *uint
}

type OrderService interface {
	Create(storeID, userID uint, input OrderInput) (*model.Order, error)
	Get(storeID, id uint) (*model.Order, error)
	List(storeID uint, opts OrderListOptions) ([]model.Order, error)
	Advance(storeID, userID, id uint) (*model.Order, error)
	UpdateStatus(storeID, userID, id uint, status model.OrderStatus) (*model.Order, error)
	Checkout(ctx context.Context, storeID, userID uint, input CheckoutInput) (*model.Order, error)
	Receipt(storeID, id uint) (string, error)
}

type orderService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	clientRepo  repository.ClientRepository
	storeRepo   repository.StoreRepository
	auth        AuthService
	activity    ActivityService
	events      OrderEventPublisher
	deliveryFee float64
	now         func() time.Time
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	clientRepo repository.ClientRepository,
	storeRepo repository.StoreRepository,
	auth AuthService,
	activity ActivityService,
	events OrderEventPublisher,
	deliveryFee float64,
) OrderService {
	return &orderService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		clientRepo:  clientRepo,
		storeRepo:   storeRepo,
		auth:        auth,
		activity:    activity,
		events:      events,
		deliveryFee: deliveryFee,
		now:         time.Now,
	}
}

// build validates the input and prices every line from the catalogue
func (s *orderService) build(storeID, userID uint, input OrderInput) (*model.Order, error) {
	input.CustomerName = strings.TrimSpace(input.CustomerName)
	input.CustomerPhone = strings.TrimSpace(input.CustomerPhone)
	input.DeliveryAddress = strings.TrimSpace(input.DeliveryAddress)
	input.Notes = strings.TrimSpace(input.Notes)

	// a registered client fills in blank contact fields
	if input.ClientID != nil {
		client, err := s.clientRepo.FindByID(*input.ClientID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, ErrClientNotFound
			}
			return nil, err
		}
		if client.StoreID != storeID {
			return nil, ErrClientNotFound
		}
		if input.CustomerName == "" {
			input.CustomerName = client.Name
		}
		if input.CustomerPhone == "" {
			input.CustomerPhone = client.Phone
		}
		if input.DeliveryAddress == "" && input.Type == model.OrderTypeDelivery {
			input.DeliveryAddress = client.Address
		}
	}

	if input.CustomerName == "" {
		return nil, invalidf("customer name is required")
	}
	if input.Type == "" {
		input.Type = model.OrderTypeCounter
	}
	if !input.Type.Valid() {
		return nil, invalidf("order type must be counter, delivery or pickup")
	}
	if input.Type == model.OrderTypeDelivery && input.DeliveryAddress == "" {
		return nil, invalidf("delivery address is required for delivery orders")
	}
	if len(input.Items) == 0 {
		return nil, ErrEmptyOrder
	}

	// merge repeated products, keeping first-seen order
	quantities := make(map[uint]int)
	var productIDs []uint
	for _, item := range input.Items {
		if item.Quantity < 1 {
			return nil, invalidf("quantity must be at least 1")
		}
		if _, seen := quantities[item.ProductID]; !seen {
			productIDs = append(productIDs, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	products, err := s.productRepo.FindWithFilter(repository.ProductFilter{StoreID: &storeID, IDs: productIDs})
	if err != nil {
		return nil, err
	}
	byID := make(map[uint]model.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	order := &model.Order{
		StoreID:         storeID,
		ClientID:        input.ClientID,
		CustomerName:    input.CustomerName,
		CustomerPhone:   input.CustomerPhone,
		DeliveryAddress: input.DeliveryAddress,
		PickupTime:      input.PickupTime,
		Type:            input.Type,
		Status:          model.OrderStatusPending,
		Notes:           input.Notes,
		CreatedBy:       userID,
	}

	var subtotal float64
	for _, id := range productIDs {
		product, ok := byID[id]
		if !ok {
			return nil, fmt.Errorf("%w: %d", ErrProductNotFound, id)
		}
		if !product.Active {
			return nil, invalidf("product %s is not available", product.Name)
		}
		qty := quantities[id]
		line := util.RoundCents(product.Price * float64(qty))
		order.Items = append(order.Items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			UnitPrice: product.Price,
			Quantity:  qty,
			LineTotal: line,
		})
		subtotal += line
	}

	order.Subtotal = util.RoundCents(subtotal)
	if order.Type == model.OrderTypeDelivery && order.Subtotal > 0 {
		order.DeliveryFee = util.RoundCents(s.deliveryFee)
	}
	order.Total = util.RoundCents(order.Subtotal + order.DeliveryFee)
	return order, nil
}

func (s *orderService) Create(storeID, userID uint, input OrderInput) (*model.Order, error) {
	order, err := s.build(storeID, userID, input)
	if err != nil {
		logger.Warn("Order rejected", map[string]interface{}{
			"store_id": storeID,
			"user_id":  userID,
			"error":    err.Error(),
		})
		return nil, err
	}
	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.activity.Record(userID, &storeID, model.ActivityCreateOrder,
		fmt.Sprintf("order #%d for %s, total %s", order.ID, order.CustomerName, util.FormatBRL(order.Total)))
	s.events.OrderCreated(order)

	logger.Info("Order created", map[string]interface{}{
		"order_id": order.ID,
		"store_id": storeID,
		"type":     order.Type,
		"total":    order.Total,
	})
	return order, nil
}

func (s *orderService) Checkout(ctx context.Context, storeID, userID uint, input CheckoutInput) (*model.Order, error) {
	supervisor, err := s.auth.Authorize(ctx, input.SupervisorLogin, input.SupervisorPassword, supervisorRoles...)
	if err != nil {
		return nil, err
	}
	if supervisor.Role != model.RoleAdmin && (supervisor.StoreID == nil || *supervisor.StoreID != storeID) {
		return nil, ErrSupervisorStore
	}

	order, err := s.build(storeID, userID, input.Order)
	if err != nil {
		return nil, err
	}
	now := s.now()
	order.Status = model.OrderStatusDelivered
	order.CompletedBy = &supervisor.ID
	order.CompletedAt = &now

	if err := s.orderRepo.Create(order); err != nil {
		return nil, err
	}

	s.activity.Record(userID, &storeID, model.ActivityCheckout,
		fmt.Sprintf("sale #%d authorized by %s, total %s", order.ID, supervisor.Login, util.FormatBRL(order.Total)))
	s.events.OrderCreated(order)

	logger.Info("PDV sale completed", map[string]interface{}{
		"order_id":      order.ID,
		"store_id":      storeID,
		"supervisor_id": supervisor.ID,
		"total":         order.Total,
	})
	return order, nil
}

func (s *orderService) Get(storeID, id uint) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, err
	}
	if order.StoreID != storeID {
		return nil, ErrOrderNotFound
	}
	return order, nil
}

func (s *orderService) List(storeID uint, opts OrderListOptions) ([]model.Order, error) {
	filter := repository.OrderFilter{
		StoreID:  &storeID,
		ClientID: opts.ClientID,
		Search:   opts.Search,
	}
	if opts.Status != "" {
		if !opts.Status.Valid() {
			return nil, invalidf("unknown status %s", opts.Status)
		}
		filter.Status = opts.Status
	}
	if opts.Date != "" {
		day, err := time.ParseInLocation(DateLayout, opts.Date, s.now().Location())
		if err != nil {
			return nil, invalidf("date must be YYYY-MM-DD")
		}
		next := day.AddDate(0, 0, 1)
		filter.From = &day
		filter.To = &next
	}
	return s.orderRepo.FindWithFilter(filter)
}

func (s *orderService) Advance(storeID, userID, id uint) (*model.Order, error) {
	order, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	next, ok := order.Status.Next()
	if !ok {
		return nil, ErrInvalidTransition
	}
	return s.transition(order, userID, next)
}

func (s *orderService) UpdateStatus(storeID, userID, id uint, status model.OrderStatus) (*model.Order, error) {
	if !status.Valid() {
		return nil, invalidf("unknown status %s", status)
	}
	order, err := s.Get(storeID, id)
	if err != nil {
		return nil, err
	}
	if !order.Status.CanTransitionTo(status) {
		logger.Warn("Order status transition refused", map[string]interface{}{
			"order_id": order.ID,
			"from":     order.Status,
			"to":       status,
		})
		return nil, ErrInvalidTransition
	}
	return s.transition(order, userID, status)
}

func (s *orderService) transition(order *model.Order, userID uint, to model.OrderStatus) (*model.Order, error) {
	from := order.Status
	order.Status = to
	if to == model.OrderStatusDelivered {
		now := s.now()
		order.CompletedBy = &userID
		order.CompletedAt = &now
	}
	if err := s.orderRepo.UpdateStatus(order, from); err != nil {
		if errors.Is(err, repository.ErrStatusChanged) {
			logger.Warn("Order status changed by another request", map[string]interface{}{
				"order_id": order.ID,
				"from":     from,
				"to":       to,
			})
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	s.activity.Record(userID, &order.StoreID, model.ActivityUpdateOrderStatus,
		fmt.Sprintf("order #%d: %s -> %s", order.ID, from.Label(), to.Label()))
	s.events.OrderStatusChanged(order, from)

	logger.Info("Order status updated", map[string]interface{}{
		"order_id": order.ID,
		"from":     from,
		"to":       to,
	})
	return order, nil
}

func (s *orderService) Receipt(storeID, id uint) (string, error) {
	order, err := s.Get(storeID, id)
	if err != nil {
		return "", err
	}
	storeName := ""
	if store, err := s.storeRepo.FindByID(storeID); err == nil {
		storeName = store.Name
	}
	return FormatReceipt(storeName, order), nil
}

// FormatReceipt renders a fixed-width receipt for the counter printer
func FormatReceipt(storeName string, order *model.Order) string {
	const width = 40
	var b strings.Builder
	rule := strings.Repeat("-", width) + "\n"

	center := func(s string) {
		if pad := (width - len([]rune(s))) / 2; pad > 0 {
			b.WriteString(strings.Repeat(" ", pad))
		}
		b.WriteString(s + "\n")
	}
	row := func(left, right string) {
		gap := width - len([]rune(left)) - len([]rune(right))
		if gap < 1 {
			gap = 1
		}
		b.WriteString(left + strings.Repeat(" ", gap) + right + "\n")
	}

	if storeName != "" {
		center(storeName)
	}
	center(fmt.Sprintf("Pedido #%d", order.ID))
	b.WriteString(rule)
	row("Data:", order.CreatedAt.Format("02/01/2006 15:04"))
	row("Cliente:", order.CustomerName)
	if order.CustomerPhone != "" {
		row("Telefone:", order.CustomerPhone)
	}
	if order.PickupTime != nil {
		row("Retirada:", order.PickupTime.Format("02/01/2006 15:04"))
	}
	if order.DeliveryAddress != "" {
		b.WriteString("Entrega: " + order.DeliveryAddress + "\n")
	}
	b.WriteString(rule)

	items := append([]model.OrderItem(nil), order.Items...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].ID < items[j].ID })
	for _, item := range items {
		row(fmt.Sprintf("%dx %s", item.Quantity, item.Name), util.FormatBRL(item.LineTotal))
	}
	b.WriteString(rule)
	row("Subtotal", util.FormatBRL(order.Subtotal))
	if order.DeliveryFee > 0 {
		row("Taxa de entrega", util.FormatBRL(order.DeliveryFee))
	}
	row("TOTAL", util.FormatBRL(order.Total))
	row("Status", order.Status.Label())
	if order.Notes != "" {
		b.WriteString(rule)
		b.WriteString("Obs: " + order.Notes + "\n")
	}
	return b.String()
}
