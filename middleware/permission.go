package middleware

import (
	"jetacademy/models"

	"github.com/gofiber/fiber/v2"
)

// requireRole authenticates the caller and checks allowed against the user's role flags.
func requireRole(allowed func(*models.User) bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := Authenticate(c)
		if err != nil {
			return StorageErrorResponse(c, err, "Not authenticated")
		}
		if user == nil {
			return JsonResponse(c, fiber.StatusUnauthorized, false, "Not authenticated", nil)
		}
		if !allowed(user) {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to access this resource!", nil)
		}
		return c.Next()
	}
}

// EnsureAdmin passes instructors.
var EnsureAdmin = requireRole(func(u *models.User) bool { return u.IsInstructor })

// EnsureTutor passes tutors and instructors.
var EnsureTutor = requireRole(func(u *models.User) bool { return u.IsTutor || u.IsInstructor })
