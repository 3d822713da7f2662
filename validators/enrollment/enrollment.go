package enrollmentValidator

import (
	"time"

	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type ValidateCodeRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

type CreateCodeRequest struct {
	Code      string     `json:"code" validate:"required,min=4,max=64"`
	StateCode string     `json:"stateCode" validate:"omitempty,len=2"`
	ExpiresAt *time.Time `json:"expiresAt"`
}

type SetUsedRequest struct {
	IsUsed *bool `json:"isUsed" validate:"required"`
}

func CodeID() fiber.Handler {
	return validators.ParamID("id", "codeID")
}

func ValidateCode() fiber.Handler {
	return validators.Body[ValidateCodeRequest]("validatedCode")
}

func CreateCode() fiber.Handler {
	return validators.Body[CreateCodeRequest]("validatedCodeCreate")
}

func SetUsed() fiber.Handler {
	return validators.Body[SetUsedRequest]("validatedCodeUsed")
}
