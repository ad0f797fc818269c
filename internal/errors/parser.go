package errors

import (
	"errors"
	"net/http"
	"strings"

	"gorm.io/gorm"
)

// ErrorInfo is the outcome of mapping an error for a response
type ErrorInfo struct {
	Status  int
	Code    string
	Message string
}

// ParseError turns repository and driver errors into a code and a safe
// message. context names the operation ("create product", "delete category").
func ParseError(err error, context string) ErrorInfo {
	if err == nil {
		return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: "Erro interno"}
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrorInfo{Status: http.StatusNotFound, Code: ResourceNotFound, Message: notFoundMessage(context)}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return duplicateKey(err.Error())
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceInUse, Message: "Registro em uso por outros dados"}
	}

	lower := strings.ToLower(err.Error())

	// postgres 23505 / sqlite UNIQUE
	if strings.Contains(lower, "duplicate key") || strings.Contains(lower, "unique constraint") {
		return duplicateKey(lower)
	}
	// postgres 23503 / sqlite FOREIGN KEY
	if strings.Contains(lower, "foreign key constraint") {
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceInUse, Message: "Registro em uso por outros dados"}
	}
	// postgres 23502 / sqlite NOT NULL
	if strings.Contains(lower, "not-null constraint") || strings.Contains(lower, "not null constraint") {
		return ErrorInfo{Status: http.StatusBadRequest, Code: ValidationRequired, Message: "Campo obrigatório não informado"}
	}
	if strings.Contains(lower, "connection refused") ||
		strings.Contains(lower, "no such host") ||
		strings.Contains(lower, "timeout") {
		return ErrorInfo{Status: http.StatusServiceUnavailable, Code: InternalExternalAPI, Message: "Serviço indisponível. Tente novamente"}
	}

	return ErrorInfo{Status: http.StatusInternalServerError, Code: InternalServerError, Message: defaultMessage(context)}
}

func duplicateKey(lower string) ErrorInfo {
	lower = strings.ToLower(lower)
	switch {
	case strings.Contains(lower, "login"):
		return ErrorInfo{Status: http.StatusConflict, Code: AuthLoginExists, Message: "Login já está em uso"}
	case strings.Contains(lower, "categor"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Já existe uma categoria com este nome"}
	case strings.Contains(lower, "backup"):
		return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Backup já registrado"}
	}
	return ErrorInfo{Status: http.StatusConflict, Code: ResourceAlreadyExists, Message: "Registro já existe"}
}

func notFoundMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "store"):
		return "Loja não encontrada"
	case strings.Contains(lower, "user"):
		return "Usuário não encontrado"
	case strings.Contains(lower, "category"):
		return "Categoria não encontrada"
	case strings.Contains(lower, "product"):
		return "Produto não encontrado"
	case strings.Contains(lower, "order"):
		return "Pedido não encontrado"
	case strings.Contains(lower, "client"):
		return "Cliente não encontrado"
	case strings.Contains(lower, "backup"):
		return "Backup não encontrado"
	}
	return "Registro não encontrado"
}

func defaultMessage(context string) string {
	lower := strings.ToLower(context)
	switch {
	case strings.Contains(lower, "create"):
		return "Erro ao salvar. Tente novamente"
	case strings.Contains(lower, "update"):
		return "Erro ao atualizar. Tente novamente"
	case strings.Contains(lower, "delete"):
		return "Erro ao excluir. Tente novamente"
	case strings.Contains(lower, "backup"):
		return "Erro ao processar backup"
	}
	return "Erro interno. Tente novamente"
}
