package utils

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// User-facing messages are Portuguese; logs stay in English.
const (
	MsgSemPermissao    = "Você não tem permissão para realizar esta ação."
	MsgNaoEncontrado   = "Registro não encontrado."
	MsgConflito        = "Já existe um registro com estes dados."
	MsgErroConexao     = "Erro de conexão. Verifique sua internet e tente novamente."
	MsgErroConfig      = "Erro de configuração. Entre em contato com o suporte."
	MsgErroGenerico    = "Ocorreu um erro. Tente novamente."
	MsgCorpoInvalido   = "Dados da requisição inválidos."
	MsgCredenciais     = "Login ou senha incorretos."
	MsgLoginEmUso      = "Este login já está em uso."
	MsgSenhaFraca      = "A senha deve ter no mínimo 6 caracteres."
	MsgSenhaIncorreta  = "Senha atual incorreta."
)

// DBErrorResponse maps a persistence error onto the user-facing taxonomy and
// writes the JSON response. The form data stays on the client; handlers never
// wipe submitted fields on failure.
func DBErrorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := MsgErroGenerico

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		status = fiber.StatusNotFound
		message = MsgNaoEncontrado
	case errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "Duplicate entry"):
		status = fiber.StatusConflict
		message = MsgConflito
	case strings.Contains(err.Error(), "connection refused") ||
		strings.Contains(err.Error(), "i/o timeout") ||
		strings.Contains(err.Error(), "invalid connection"):
		status = fiber.StatusServiceUnavailable
		message = MsgErroConexao
	}

	return c.Status(status).JSON(fiber.Map{"error": message})
}
