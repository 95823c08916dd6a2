package utils

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidateStruct runs the request DTO through the validator and returns one
// Portuguese message per failing field, or nil when everything passes.
func ValidateStruct(s interface{}) []string {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	validationErrors, ok := err.(validator.ValidationErrors)
	if !ok {
		return []string{MsgCorpoInvalido}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, fe := range validationErrors {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			messages = append(messages, fmt.Sprintf("O campo %s é obrigatório.", field))
		case "min":
			messages = append(messages, fmt.Sprintf("O campo %s deve ter no mínimo %s caracteres.", field, fe.Param()))
		case "max":
			messages = append(messages, fmt.Sprintf("O campo %s deve ter no máximo %s caracteres.", field, fe.Param()))
		case "email":
			messages = append(messages, fmt.Sprintf("O campo %s deve ser um email válido.", field))
		case "oneof":
			messages = append(messages, fmt.Sprintf("O campo %s deve ser um de: %s.", field, fe.Param()))
		case "gt", "gte":
			messages = append(messages, fmt.Sprintf("O campo %s deve ser maior que zero.", field))
		default:
			messages = append(messages, fmt.Sprintf("O campo %s é inválido.", field))
		}
	}
	return messages
}
