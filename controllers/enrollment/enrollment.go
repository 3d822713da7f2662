package enrollmentController

import (
	"errors"
	"strings"
	"time"

	"jetacademy/middleware"
	"jetacademy/models"
	"jetacademy/storage"
	"jetacademy/utils"
	enrollmentValidator "jetacademy/validators/enrollment"

	"github.com/gofiber/fiber/v2"
)

// ValidateCode tells a prospective student whether a code can still be used.
func ValidateCode(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCode").(*enrollmentValidator.ValidateCodeRequest)

	code, err := storage.Store.GetEnrollmentCode(c.UserContext(), utils.NormalizeCode(reqData.Code))
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid enrollment code", fiber.Map{"valid": false})
	case err != nil:
		return middleware.StorageErrorResponse(c, err, "Invalid enrollment code")
	case code.IsUsed:
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment code has already been used", fiber.Map{"valid": false})
	case code.Expired(time.Now()):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment code has expired", fiber.Map{"valid": false})
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment code is valid.", fiber.Map{
		"valid":     true,
		"stateCode": code.StateCode,
	})
}

func ListCodes(c *fiber.Ctx) error {
	codes, err := storage.Store.ListEnrollmentCodes(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No enrollment codes found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment codes fetched successfully.", codes)
}

// ListActiveCodes returns codes that can still be redeemed.
func ListActiveCodes(c *fiber.Ctx) error {
	codes, err := storage.Store.ListEnrollmentCodes(c.UserContext())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No enrollment codes found")
	}
	now := time.Now()
	active := []models.EnrollmentCode{}
	for i := range codes {
		if !codes[i].IsUsed && !codes[i].Expired(now) {
			active = append(active, codes[i])
		}
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Active enrollment codes fetched successfully.", active)
}

func ListCodesByState(c *fiber.Ctx) error {
	state := strings.ToUpper(strings.TrimSpace(c.Params("stateCode")))
	if len(state) != 2 {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid stateCode!", nil)
	}
	codes, err := storage.Store.ListEnrollmentCodesByState(c.UserContext(), state)
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "No enrollment codes found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment codes fetched successfully.", codes)
}

func CreateCode(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCodeCreate").(*enrollmentValidator.CreateCodeRequest)

	code := &models.EnrollmentCode{
		Code:      utils.NormalizeCode(reqData.Code),
		StateCode: strings.ToUpper(reqData.StateCode),
		ExpiresAt: reqData.ExpiresAt,
	}
	if code.StateCode == "" {
		code.StateCode = utils.StateCodeOf(code.Code)
	}
	err := storage.Store.CreateEnrollmentCode(c.UserContext(), code)
	if errors.Is(err, storage.ErrDuplicate) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Enrollment code already exists", nil)
	}
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Enrollment code not found")
	}
	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Enrollment code created successfully.", code)
}

func SetCodeUsed(c *fiber.Ctx) error {
	reqData := c.Locals("validatedCodeUsed").(*enrollmentValidator.SetUsedRequest)
	code, err := storage.Store.SetEnrollmentCodeUsed(c.UserContext(), c.Locals("codeID").(uint), *reqData.IsUsed, time.Now())
	if err != nil {
		return middleware.StorageErrorResponse(c, err, "Enrollment code not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment code updated successfully.", code)
}

func DeleteCode(c *fiber.Ctx) error {
	if err := storage.Store.DeleteEnrollmentCode(c.UserContext(), c.Locals("codeID").(uint)); err != nil {
		return middleware.StorageErrorResponse(c, err, "Enrollment code not found")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrollment code deleted successfully.", nil)
}
