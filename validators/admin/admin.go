package adminValidator

import (
	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type CreateInstructorRequest struct {
	Username  string `json:"username" validate:"required,min=3,max=50"`
	Password  string `json:"password" validate:"required,min=6,max=128"`
	Email     string `json:"email" validate:"required,email"`
	IsTutor   bool   `json:"isTutor"`
	IsFounder bool   `json:"isFounder"`
}

// UpdateUserRoleRequest leaves flags that are not sent unchanged.
type UpdateUserRoleRequest struct {
	UserID       uint  `json:"userId" validate:"required"`
	IsInstructor *bool `json:"isInstructor"`
	IsTutor      *bool `json:"isTutor"`
	IsFounder    *bool `json:"isFounder"`
}

func CreateInstructor() fiber.Handler {
	return validators.Body[CreateInstructorRequest]("validatedInstructor")
}

func UpdateUserRole() fiber.Handler {
	return validators.Body[UpdateUserRoleRequest]("validatedUserRole")
}
