package controller

import (
	"net/http"

	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type ProductController struct {
	productService service.ProductService
}

func NewProductController(productService service.ProductService) *ProductController {
	return &ProductController{
		productService: productService,
	}
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	CategoryID  *uint   `json:"category_id"`
	ImageURL    string  `json:"image_url"`
	Active      *bool   `json:"active"`
}

func (r ProductRequest) input() service.ProductInput {
	return service.ProductInput{
		Name:        r.Name,
		Description: r.Description,
		Price:       r.Price,
		CategoryID:  r.CategoryID,
		ImageURL:    r.ImageURL,
		Active:      r.Active,
	}
}

// List returns the store catalogue
// GET /api/v1/products?category_id=&search=&active=
func (ctrl *ProductController) List(c *gin.Context) {
	log := middleware.GetLoggerFromContext(c)

	categoryID, ok := optionalUint(c, "category_id")
	if !ok {
		return
	}
	active, ok := optionalBool(c, "active")
	if !ok {
		return
	}

	_, storeID := currentUser(c)
	products, err := ctrl.productService.List(storeID, service.ProductListOptions{
		CategoryID: categoryID,
		Search:     c.Query("search"),
		Active:     active,
	})
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}

	log.Debug("Products fetched successfully", map[string]interface{}{
		"store_id": storeID,
		"count":    len(products),
	})

	c.JSON(http.StatusOK, gin.H{
		"products": products,
		"count":    len(products),
	})
}

// GET /api/v1/products/:id
func (ctrl *ProductController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)
	product, err := ctrl.productService.Get(storeID, id)
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// POST /api/v1/products
func (ctrl *ProductController) Create(c *gin.Context) {
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	_, storeID := currentUser(c)
	product, err := ctrl.productService.Create(storeID, req.input())
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"product": product})
}

// PUT /api/v1/products/:id
func (ctrl *ProductController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req ProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	_, storeID := currentUser(c)
	product, err := ctrl.productService.Update(storeID, id, req.input())
	if err != nil {
		respondServiceError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": product})
}

// DELETE /api/v1/products/:id
func (ctrl *ProductController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)
	if err := ctrl.productService.Delete(storeID, id); err != nil {
		respondServiceError(c, err, "product")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Produto excluído"})
}
