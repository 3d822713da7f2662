// Package validators holds the request validation shared by the per-area
// validator packages. Handlers parse and validate the request, then hand the
// typed value to the controller through c.Locals.
package validators

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"jetacademy/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func init() {
	validate.RegisterTagNameFunc(func(f reflect.StructField) string {
		for _, tag := range []string{"json", "query", "form"} {
			name, _, _ := strings.Cut(f.Tag.Get(tag), ",")
			if name == "-" {
				return ""
			}
			if name != "" {
				return name
			}
		}
		return f.Name
	})
}

// Check validates req and returns a field to message map, or nil when valid.
func Check(req interface{}) map[string]string {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return map[string]string{"request": err.Error()}
	}
	out := make(map[string]string, len(fieldErrs))
	for _, fe := range fieldErrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required", "required_without":
		return field + " is required!"
	case "email":
		return "Invalid email!"
	case "url":
		return field + " must be a valid URL!"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s!", field, fe.Param())
	case "len":
		return fmt.Sprintf("%s must be exactly %s characters long!", field, fe.Param())
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s!", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters long!", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s!", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s!", field, fe.Param())
	}
	return field + " is invalid!"
}

// Body parses the request body into a new T, validates it and stores it
// under local. An empty body validates the zero value.
func Body[T any](local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if len(c.Body()) > 0 || strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
			if err := c.BodyParser(req); err != nil {
				return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
			}
		}
		if errs := Check(req); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(local, req)
		return c.Next()
	}
}

// Query is Body for query strings.
func Query[T any](local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		req := new(T)
		if err := c.QueryParser(req); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid query parameters!", nil)
		}
		if errs := Check(req); errs != nil {
			return middleware.ValidationErrorResponse(c, errs)
		}
		c.Locals(local, req)
		return c.Next()
	}
}

// ParamID requires a positive integer route parameter and stores it as uint under local.
func ParamID(param, local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(strings.TrimSpace(c.Params(param)), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, fmt.Sprintf("Invalid %s!", param), nil)
		}
		c.Locals(local, uint(id))
		return c.Next()
	}
}

// Pagination is the page/limit query shared by list endpoints.
type Pagination struct {
	Page  int `query:"page" validate:"omitempty,min=1"`
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

// Window returns offset and limit, defaulting to the first page of 10.
func (p *Pagination) Window() (int, int) {
	page, limit := 1, 10
	if p != nil && p.Page > 0 {
		page = p.Page
	}
	if p != nil && p.Limit > 0 {
		limit = p.Limit
	}
	return (page - 1) * limit, limit
}

func ListQuery() fiber.Handler {
	return Query[Pagination]("validatedPagination")
}
