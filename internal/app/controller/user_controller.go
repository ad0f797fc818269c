package controller

import (
	"net/http"

	"github.com/evoapps/confeitaria-backend/internal/app/model"
	"github.com/evoapps/confeitaria-backend/internal/app/repository"
	"github.com/evoapps/confeitaria-backend/internal/app/service"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

type UserController struct {
	userService service.UserService
}

func NewUserController(userService service.UserService) *UserController {
	return &UserController{userService: userService}
}

type UserRequest struct {
	Name     string         `json:"name"`
	Login    string         `json:"login"`
	Password string         `json:"password"`
	Role     model.UserRole `json:"role"`
	StoreID  *uint          `json:"store_id"`
}

func (r UserRequest) input() service.UserInput {
	return service.UserInput{
		Name:     r.Name,
		Login:    r.Login,
		Password: r.Password,
		Role:     r.Role,
		StoreID:  r.StoreID,
	}
}

// List returns users, optionally filtered by store and role
// GET /api/v1/users
func (ctrl *UserController) List(c *gin.Context) {
	storeID, ok := optionalUint(c, "store_id")
	if !ok {
		return
	}

	users, err := ctrl.userService.List(repository.UserFilter{
		StoreID: storeID,
		Role:    model.UserRole(c.Query("role")),
	})
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"count": len(users),
	})
}

// GET /api/v1/users/:id
func (ctrl *UserController) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	user, err := ctrl.userService.Get(id)
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// POST /api/v1/users
func (ctrl *UserController) Create(c *gin.Context) {
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	user, err := ctrl.userService.Create(actorID, req.input())
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// PUT /api/v1/users/:id
func (ctrl *UserController) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var req UserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badInput(c, err)
		return
	}

	actorID, _ := middleware.GetUserID(c)
	user, err := ctrl.userService.Update(actorID, id, req.input())
	if err != nil {
		respondServiceError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": user})
}

// DELETE /api/v1/users/:id
func (ctrl *UserController) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}

	actorID, _ := middleware.GetUserID(c)
	if err := ctrl.userService.Delete(actorID, id); err != nil {
		respondServiceError(c, err, "user")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Usuário excluído"})
}
