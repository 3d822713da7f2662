package validators

import (
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string `json:"name" validate:"required,min=3"`
	Email string `json:"email" validate:"omitempty,email"`
	Kind  string `json:"kind" validate:"omitempty,oneof=a b"`
}

func TestCheckUsesJSONNames(t *testing.T) {
	assert.Nil(t, Check(&sample{Name: "hana"}))

	errs := Check(&sample{Name: "ha", Email: "nope", Kind: "c"})
	assert.Equal(t, map[string]string{
		"name":  "name must be at least 3 characters long!",
		"email": "Invalid email!",
		"kind":  "kind must be one of: a b!",
	}, errs)

	assert.Equal(t, "name is required!", Check(&sample{})["name"])
}

func TestPaginationWindow(t *testing.T) {
	var nilPage *Pagination
	offset, limit := nilPage.Window()
	assert.Equal(t, 0, offset)
	assert.Equal(t, 10, limit)

	offset, limit = (&Pagination{Page: 3, Limit: 25}).Window()
	assert.Equal(t, 50, offset)
	assert.Equal(t, 25, limit)
}

func TestParamID(t *testing.T) {
	app := fiber.New()
	app.Get("/items/:id", ParamID("id", "itemID"), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("itemID"))
	})

	for path, want := range map[string]int{
		"/items/7":   fiber.StatusOK,
		"/items/0":   fiber.StatusBadRequest,
		"/items/abc": fiber.StatusBadRequest,
	} {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, path, nil), -1)
		require.NoError(t, err)
		assert.Equal(t, want, resp.StatusCode, path)
	}
}

func TestBodyStoresValidatedRequest(t *testing.T) {
	app := fiber.New()
	app.Post("/", Body[sample]("validatedSample"), func(c *fiber.Ctx) error {
		return c.JSON(c.Locals("validatedSample"))
	})

	post := func(body string) (int, []byte) {
		req := httptest.NewRequest(fiber.MethodPost, "/", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := app.Test(req, -1)
		require.NoError(t, err)
		raw, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, raw
	}

	status, raw := post(`{"name":"hana"}`)
	require.Equal(t, fiber.StatusOK, status)
	var got sample
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "hana", got.Name)

	status, _ = post(`{"name":`)
	assert.Equal(t, fiber.StatusBadRequest, status)

	status, _ = post(`{"name":"x"}`)
	assert.Equal(t, fiber.StatusUnprocessableEntity, status)
}
