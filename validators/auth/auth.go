package authValidator

import (
	"strings"

	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/validators"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Username       string `json:"username" validate:"required,min=3,max=50"`
	Password       string `json:"password" validate:"required,min=6,max=128"`
	Email          string `json:"email" validate:"required,email"`
	EnrollmentCode string `json:"enrollmentCode" validate:"required,max=64"`
	Phone          string `json:"phone" validate:"omitempty,max=20"`
}

type LoginRequest struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	StudentID  string `json:"studentId"`
	DeviceType string `json:"deviceType"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=6,max=128"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6,max=128"`
}

// NotificationPreferencesRequest leaves channels that are not sent unchanged.
type NotificationPreferencesRequest struct {
	EmailNotifications *bool `json:"emailNotifications"`
	SMSNotifications   *bool `json:"smsNotifications"`
	PushNotifications  *bool `json:"pushNotifications"`
}

type PasscodeAuthRequest struct {
	Username string `json:"username" validate:"required"`
	Passcode string `json:"passcode" validate:"required"`
}

type MakeInstructorRequest struct {
	Username string `json:"username" validate:"required"`
	SetupKey string `json:"setupKey" validate:"required"`
}

func Register() fiber.Handler {
	return validators.Body[RegisterRequest]("validatedUser")
}

// Login answers 400 unless all three credentials are present.
func Login() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(LoginRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}
		reqData.Username = strings.TrimSpace(reqData.Username)
		reqData.StudentID = strings.TrimSpace(reqData.StudentID)
		if reqData.Username == "" || reqData.Password == "" || reqData.StudentID == "" {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Username, password and student ID are required", nil)
		}
		switch reqData.DeviceType {
		case "", models.DeviceDesktop, models.DeviceMobile:
		default:
			return middleware.ValidationErrorResponse(c, map[string]string{"deviceType": "deviceType must be one of: desktop mobile!"})
		}
		c.Locals("validatedLogin", reqData)
		return c.Next()
	}
}

func ForgotPassword() fiber.Handler {
	return validators.Body[ForgotPasswordRequest]("validatedForgotPassword")
}

func ResetPassword() fiber.Handler {
	return validators.Body[ResetPasswordRequest]("validatedResetPassword")
}

func ChangePassword() fiber.Handler {
	return validators.Body[ChangePasswordRequest]("validatedChangePassword")
}

func NotificationPreferences() fiber.Handler {
	return validators.Body[NotificationPreferencesRequest]("validatedPreferences")
}

func PasscodeAuth() fiber.Handler {
	return validators.Body[PasscodeAuthRequest]("validatedPasscodeAuth")
}

func MakeInstructor() fiber.Handler {
	return validators.Body[MakeInstructorRequest]("validatedMakeInstructor")
}
