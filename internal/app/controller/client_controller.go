package controller

import (
	"net/http"

	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

type ClientController struct {
	clientService service.ClientService
}

func NewClientController(clientService service.ClientService) *ClientController {
	return &ClientController{clientService: clientService}
}

type ClientRequest struct {
	Name    string `json:"name"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	Address string `json:"address"`
	Notes   string `json:"notes"`
}

func (r ClientRequest) input() service.ClientInput {
	return service.ClientInput{Name: r.Name, Phone: r.Phone, Email: r.Email, Address: r.Address, Notes: r.Notes}
}

// GET /api/v1/clients?search=
func (ctrl *ClientController) List(c *gin.Context) {
	_, storeID := currentUser(c)
	clients, err := ctrl.clientService.List(storeID, c.Query("search"))
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"clients": clients,
		"count":   len(clients),
	})
}

// GET /api/v1/clients/:id
func (ctrl *ClientController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)
	client, err := ctrl.clientService.Get(storeID, id)
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// POST /api/v1/clients
func (ctrl *ClientController) Create(c *gin.Context) {
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	_, storeID := currentUser(c)
	client, err := ctrl.clientService.Create(storeID, req.input())
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"client": client})
}

// PUT /api/v1/clients/:id
func (ctrl *ClientController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	_, storeID := currentUser(c)
	client, err := ctrl.clientService.Update(storeID, id, req.input())
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"client": client})
}

// DELETE /api/v1/clients/:id
func (ctrl *ClientController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)
	if err := ctrl.clientService.Delete(storeID, id); err != nil {
		respondServiceError(c, err, "client")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cliente excluído"})
}

// GET /api/v1/clients/:id/orders
func (ctrl *ClientController) Orders(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)
	orders, err := ctrl.clientService.Orders(storeID, id)
	if err != nil {
		respondServiceError(c, err, "client")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"orders": orders,
		"count":  len(orders),
	})
}
