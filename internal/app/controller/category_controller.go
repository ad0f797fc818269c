package controller

import (
	"net/http"

	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/gin-gonic/gin"
)

type CategoryController struct {
	categoryService service.CategoryService
}

func NewCategoryController(categoryService service.CategoryService) *CategoryController {
	return &CategoryController{categoryService: categoryService}
}

type CategoryRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// GET /api/v1/categories
func (ctrl *CategoryController) List(c *gin.Context) {
	_, storeID := currentUser(c)
	categories, err := ctrl.categoryService.List(storeID)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"categories": categories,
		"count":      len(categories),
	})
}

// GET /api/v1/categories/:id
func (ctrl *CategoryController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)
	category, err := ctrl.categoryService.Get(storeID, id)
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// POST /api/v1/categories
func (ctrl *CategoryController) Create(c *gin.Context) {
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	_, storeID := currentUser(c)
	category, err := ctrl.categoryService.Create(storeID, service.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"category": category})
}

// PUT /api/v1/categories/:id
func (ctrl *CategoryController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req CategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}
	_, storeID := currentUser(c)
	category, err := ctrl.categoryService.Update(storeID, id, service.CategoryInput{Name: req.Name, Description: req.Description})
	if err != nil {
		respondServiceError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"category": category})
}

// DELETE /api/v1/categories/:id
func (ctrl *CategoryController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	_, storeID := currentUser(c)
	if err := ctrl.categoryService.Delete(storeID, id); err != nil {
		respondServiceError(c, err, "category")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Categoria excluída"})
}
