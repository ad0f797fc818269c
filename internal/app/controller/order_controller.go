package controller

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orderService service.OrderService
}

func NewOrderController(orderService service.OrderService) *OrderController {
	return &OrderController{
		orderService: orderService,
	}
}

type OrderItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required,min=1"`
}

type CreateOrderRequest struct {
	ClientID        *uint              `json:"client_id"`
	CustomerName    string             `json:"customer_name"`
	CustomerPhone   string             `json:"customer_phone"`
	DeliveryAddress string             `json:"delivery_address"`
	PickupTime      *time.Time         `json:"pickup_time"`
	Type            model.OrderType    `json:"type"`
	Notes           string             `json:"notes"`
	Items           []OrderItemRequest `json:"items" binding:"dive"`
}

func (r CreateOrderRequest) input() service.OrderInput {
	items := make([]service.OrderItemInput, 0, len(r.Items))
	for _, it := range r.Items {
		items = append(items, service.OrderItemInput{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return service.OrderInput{
		ClientID:        r.ClientID,
		CustomerName:    r.CustomerName,
		CustomerPhone:   r.CustomerPhone,
		DeliveryAddress: r.DeliveryAddress,
		PickupTime:      r.PickupTime,
		Type:            r.Type,
		Notes:           r.Notes,
		Items:           items,
	}
}

type CheckoutRequest struct {
	CreateOrderRequest
	SupervisorLogin    string `json:"supervisor_login"`
	SupervisorPassword string `json:"supervisor_password"`
}

type UpdateOrderStatusRequest struct {
	Status model.OrderStatus `json:"status" binding:"required"`
}

func (ctrl *OrderController) listOptions(c *gin.Context) (service.OrderListOptions, bool) {
	clientID, ok := optionalUint(c, "client_id")
	if !ok {
		return service.OrderListOptions{}, false
	}
	return service.OrderListOptions{
		Status:   model.OrderStatus(c.Query("status")),
		Date:     c.Query("date"),
		Search:   c.Query("search"),
		ClientID: clientID,
	}, true
}

// List returns the store's orders, newest first
// GET /api/v1/orders?status=&date=&search=&client_id=
func (ctrl *OrderController) List(c *gin.Context) {
	opts, ok := ctrl.listOptions(c)
	if !ok {
		return
	}
	_, storeID := currentUser(c)

	orders, err := ctrl.orderService.List(storeID, opts)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}

// GET /api/v1/orders/:id
func (ctrl *OrderController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)

	order, err := ctrl.orderService.Get(storeID, id)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// POST /api/v1/orders
func (ctrl *OrderController) Create(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	userID, storeID := currentUser(c)

	order, err := ctrl.orderService.Create(storeID, userID, req.input())
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	log.Info("Order created successfully", map[string]interface{}{
		"order_id": order.ID,
		"total":    order.Total,
	})

	c.JSON(http.StatusCreated, gin.H{
		"message": "Pedido criado",
		"order":   order,
	})
}

// Checkout records a counter sale authorized by a supervisor
// POST /api/v1/pdv/checkout
func (ctrl *OrderController) Checkout(c *gin.Context) {
	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	userID, storeID := currentUser(c)

	input := req.input()
	if input.Type == "" {
		input.Type = model.OrderTypeCounter
	}
	order, err := ctrl.orderService.Checkout(c.Request.Context(), storeID, userID, service.CheckoutInput{
		Order:              input,
		SupervisorLogin:    req.SupervisorLogin,
		SupervisorPassword: req.SupervisorPassword,
	})
	if err != nil {
		respondServiceError(c, err, "checkout")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Venda finalizada",
		"order":   order,
	})
}

// Advance moves an order to its next lifecycle step
// POST /api/v1/orders/:id/advance
func (ctrl *OrderController) Advance(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	userID, storeID := currentUser(c)

	order, err := ctrl.orderService.Advance(storeID, userID, id)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// PUT /api/v1/orders/:id/status
func (ctrl *OrderController) UpdateStatus(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	userID, storeID := currentUser(c)

	order, err := ctrl.orderService.UpdateStatus(storeID, userID, id, req.Status)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}
	c.JSON(http.StatusOK, gin.H{"order": order})
}

// Export streams the filtered order list as CSV
// GET /api/v1/orders/export
func (ctrl *OrderController) Export(c *gin.Context) {
	opts, ok := ctrl.listOptions(c)
	if !ok {
		return
	}
	_, storeID := currentUser(c)

	orders, err := ctrl.orderService.List(storeID, opts)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}

	var buf bytes.Buffer
	if err := service.WriteOrdersCSV(&buf, orders); err != nil {
		respondServiceError(c, err, "order export")
		return
	}

	filename := fmt.Sprintf("pedidos-%s.csv", time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// Receipt returns the printable receipt of an order
// GET /api/v1/orders/:id/receipt
func (ctrl *OrderController) Receipt(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)

	receipt, err := ctrl.orderService.Receipt(storeID, id)
	if err != nil {
		respondServiceError(c, err, "order")
		return
	}
	c.String(http.StatusOK, receipt)
}
