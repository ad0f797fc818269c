package controller

import (
	"net/http"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type StoreController struct {
	storeService service.StoreService
}

func NewStoreController(storeService service.StoreService) *StoreController {
	return &StoreController{storeService: storeService}
}

type StoreRequest struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

func (r StoreRequest) input() service.StoreInput {
	return service.StoreInput{Name: r.Name, Address: r.Address, Phone: r.Phone, Email: r.Email}
}

// GET /api/v1/stores
func (ctrl *StoreController) List(c *gin.Context) {
	stores, err := ctrl.storeService.List()
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"stores": stores,
		"count":  len(stores),
	})
}

// GET /api/v1/stores/:id
func (ctrl *StoreController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	store, err := ctrl.storeService.Get(id)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

// POST /api/v1/stores
func (ctrl *StoreController) Create(c *gin.Context) {
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	store, err := ctrl.storeService.Create(actorID, req.input())
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"store": store})
}

// PUT /api/v1/stores/:id
func (ctrl *StoreController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req StoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	store, err := ctrl.storeService.Update(actorID, id, req.input())
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"store": store})
}

// DELETE /api/v1/stores/:id
func (ctrl *StoreController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserID(c)
	if err := ctrl.storeService.Delete(actorID, id); err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Loja excluída"})
}

// GetTheme returns the palette of a store. Staff only see their own store.
// GET /api/v1/stores/:id/theme
func (ctrl *StoreController) GetTheme(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if role, _ := middleware.GetUserRole(c); role != model.RoleAdmin && middleware.GetUserStoreID(c) != id {
		apperrors.Forbidden(c, "")
		return
	}

	theme, err := ctrl.storeService.GetTheme(id)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": theme})
}

// PUT /api/v1/stores/:id/theme
func (ctrl *StoreController) UpdateTheme(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var theme model.Theme
	if err := c.ShouldBindJSON(&theme); err != nil {
		badInput(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	saved, err := ctrl.storeService.UpdateTheme(actorID, id, theme)
	if err != nil {
		respondServiceError(c, err, "store")
		return
	}
	c.JSON(http.StatusOK, gin.H{"theme": saved})
}
