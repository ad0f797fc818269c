package controller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/evoapps/confeitaria-backend/internal/app/service"
	apperrors "github.com/evoapps/confeitaria-backend/internal/errors"
	"github.com/evoapps/confeitaria-backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type errorMapping struct {
	target  error
	status  int
	code    string
	message string
}

// serviceErrors translates service sentinels to HTTP answers. Order matters:
// the first match wins.
var serviceErrors = []errorMapping{
	{service.ErrMissingCredentials, http.StatusBadRequest, apperrors.ValidationRequired, "Informe login e senha"},
	{service.ErrInvalidCredentials, http.StatusUnauthorized, apperrors.AuthInvalidCredentials, "Login ou senha inválidos"},
	{service.ErrTooManyAttempts, http.StatusTooManyRequests, apperrors.AuthTooManyAttempts, "Muitas tentativas, aguarde para tentar novamente"},
	{service.ErrTokenExpired, http.StatusUnauthorized, apperrors.AuthTokenExpired, "Sessão expirada, faça login novamente"},
	{service.ErrTokenRevoked, http.StatusUnauthorized, apperrors.AuthTokenRevoked, "Sessão encerrada, faça login novamente"},
	{service.ErrInvalidToken, http.StatusUnauthorized, apperrors.AuthTokenInvalid, "Token inválido"},
	{service.ErrNotSupervisor, http.StatusForbidden, apperrors.AuthzForbidden, "Usuário sem permissão para autorizar"},
	{service.ErrSupervisorStore, http.StatusForbidden, apperrors.AuthzForbidden, "Supervisor de outra loja"},
	{service.ErrCannotDeleteSelf, http.StatusForbidden, apperrors.AuthzSelfDelete, "Você não pode excluir o próprio usuário"},
	{service.ErrLoginAlreadyExists, http.StatusConflict, apperrors.AuthLoginExists, "Login já está em uso"},
	{service.ErrCategoryExists, http.StatusConflict, apperrors.ResourceAlreadyExists, "Já existe uma categoria com este nome"},
	{service.ErrCategoryInUse, http.StatusConflict, apperrors.ResourceInUse, "Categoria possui produtos vinculados"},
	{service.ErrStoreInUse, http.StatusConflict, apperrors.ResourceInUse, "Loja possui usuários vinculados"},
	{service.ErrInvalidTransition, http.StatusConflict, apperrors.OrderInvalidTransition, "Mudança de status não permitida"},
	{service.ErrEmptyOrder, http.StatusBadRequest, apperrors.OrderEmpty, "O pedido precisa de pelo menos um item"},
	{service.ErrInvalidTheme, http.StatusBadRequest, apperrors.ValidationInvalidFormat, "Cores devem estar no formato #rrggbb"},
	{service.ErrInvalidRange, http.StatusBadRequest, apperrors.ValidationInvalidRange, "Período inválido"},
	{service.ErrInvalidBackup, http.StatusBadRequest, apperrors.BackupInvalidFormat, "Arquivo de backup inválido"},
	{service.ErrUnknownReport, http.StatusNotFound, apperrors.ResourceNotFound, "Relatório não encontrado"},
	{service.ErrBackupNotFound, http.StatusNotFound, apperrors.BackupNotFound, "Backup não encontrado"},
	{service.ErrOrderNotFound, http.StatusNotFound, apperrors.OrderNotFound, "Pedido não encontrado"},
	{service.ErrUserNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "Usuário não encontrado"},
	{service.ErrStoreNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "Loja não encontrada"},
	{service.ErrCategoryNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "Categoria não encontrada"},
	{service.ErrProductNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "Produto não encontrado"},
	{service.ErrClientNotFound, http.StatusNotFound, apperrors.ResourceNotFound, "Cliente não encontrado"},
}

// respondServiceError answers with the mapped code, or logs and parses
// anything unexpected
func respondServiceError(c *gin.Context, err error, context string) {
	log := middleware.GetLoggerFromContext(c)

	if errors.Is(err, service.ErrInvalidInput) {
		log.Warn("Invalid input", map[string]interface{}{
			"context": context,
			"error":   err.Error(),
		})
		detail := strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
		apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Dados inválidos: "+detail)
		return
	}

	var throttled *service.ThrottledError
	if errors.As(err, &throttled) {
		c.Header("Retry-After", strconv.Itoa(int(throttled.Wait.Seconds()+0.999)))
	}

	for _, m := range serviceErrors {
		if errors.Is(err, m.target) {
			log.Warn("Request rejected", map[string]interface{}{
				"context": context,
				"code":    m.code,
				"error":   err.Error(),
			})
			apperrors.RespondWithError(c, m.status, m.code, m.message)
			return
		}
	}

	log.Error("Request failed", err, map[string]interface{}{
		"context": context,
	})
	apperrors.RespondWithParsedError(c, err, context)
}

func badInput(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Invalid request body", map[string]interface{}{
		"error": err.Error(),
	})
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		fields := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			fields[fieldKey(fe.Namespace())] = fe.Tag()
		}
		apperrors.RespondWithValidationError(c, fields)
		return
	}
	apperrors.BadRequest(c, apperrors.ValidationInvalidInput, "Dados da requisição inválidos")
}

// fieldKey drops the struct name from a validator namespace: CreateOrderRequest.Items[0].Quantity -> items[0].quantity
func fieldKey(namespace string) string {
	if i := strings.IndexByte(namespace, '.'); i >= 0 {
		namespace = namespace[i+1:]
	}
	return strings.ToLower(namespace)
}

// parseID reads a numeric path parameter, answering 400 when malformed
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Identificador inválido")
		return 0, false
	}
	return uint(id), true
}

// optionalUint reads an optional numeric query parameter
func optionalUint(c *gin.Context, name string) (*uint, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidID, "Parâmetro "+name+" inválido")
		return nil, false
	}
	id := uint(v)
	return &id, true
}

func optionalBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		apperrors.BadRequest(c, apperrors.ValidationInvalidFormat, "Parâmetro "+name+" inválido")
		return nil, false
	}
	return &v, true
}

// currentUser returns the authenticated user and the store the request works on
func currentUser(c *gin.Context) (userID, storeID uint) {
	userID, _ = middleware.GetUserID(c)
	storeID, _ = middleware.GetStoreID(c)
	return userID, storeID
}
