package shared

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEchoApp(extended bool) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(JSONBodyParser(), URLEncodedBodyParser(extended))
	app.Post("/echo", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"body": ParsedBody(c)})
	})
	return app
}

func doRequest(t *testing.T, app *fiber.App, contentType, body string) (int, map[string]any) {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(body))
	if contentType != "" {
		req.Header.Set(fiber.HeaderContentType, contentType)
	}

	res, err := app.Test(req)
	require.NoError(t, err)
	defer res.Body.Close()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))

	return res.StatusCode, decoded
}

func TestJSONBodyParser(t *testing.T) {
	app := newEchoApp(true)

	status, res := doRequest(t, app, "application/json; charset=utf-8", `{"name":"jane","age":30,"tags":["a"]}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{
		"name": "jane",
		"age":  float64(30),
		"tags": []any{"a"},
	}, res["body"])
}

func TestJSONBodyParserRejectsMalformed(t *testing.T) {
	app := newEchoApp(true)

	for _, body := range []string{`{"name":`, `"just a string"`, `42`} {
		status, res := doRequest(t, app, fiber.MIMEApplicationJSON, body)
		assert.Equal(t, fiber.StatusBadRequest, status, body)
		assert.Equal(t, "Malformed JSON body", res["message"], body)
	}
}

func TestJSONBodyParserEmptyBody(t *testing.T) {
	app := newEchoApp(true)

	status, res := doRequest(t, app, fiber.MIMEApplicationJSON, "")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{}, res["body"])
}

func TestURLEncodedBodyParser(t *testing.T) {
	app := newEchoApp(true)

	status, res := doRequest(t, app, fiber.MIMEApplicationForm, "user[name]=jane&tags[]=a&tags[]=b")

	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, map[string]any{
		"user": map[string]any{"name": "jane"},
		"tags": []any{"a", "b"},
	}, res["body"])
}

func TestURLEncodedBodyParserTooManyParameters(t *testing.T) {
	app := newEchoApp(true)

	body := strings.Repeat("a=1&", formParameterLimit+1)
	status, res := doRequest(t, app, fiber.MIMEApplicationForm, body)

	assert.Equal(t, fiber.StatusRequestEntityTooLarge, status)
	assert.Equal(t, "too many parameters", res["message"])
}

func TestURLEncodedBodyParserTooDeep(t *testing.T) {
	app := newEchoApp(true)

	status, res := doRequest(t, app, fiber.MIMEApplicationForm, "a[b][c][d][e][f][g]=deep")

	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Malformed form body", res["message"])
}

func TestBodyParsersIgnoreOtherContentTypes(t *testing.T) {
	app := newEchoApp(true)

	status, res := doRequest(t, app, "text/plain", `{"name":"jane"}`)

	assert.Equal(t, fiber.StatusOK, status)
	assert.Nil(t, res["body"])
}

func TestBindBody(t *testing.T) {
	type request struct {
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	app := fiber.New(fiber.Config{ErrorHandler: ErrorHandler})
	app.Use(JSONBodyParser(), URLEncodedBodyParser(true))
	app.Post("/echo", func(c *fiber.Ctx) error {
		var req request
		if err := BindBody(c, &req); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"name": req.Name, "email": req.Email})
	})

	status, res := doRequest(t, app, fiber.MIMEApplicationForm, "name=jane&email=jane%40example.com")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "jane", res["name"])
	assert.Equal(t, "jane@example.com", res["email"])

	status, res = doRequest(t, app, fiber.MIMEApplicationJSON, `{"name":"joe","email":"joe@example.com"}`)
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "joe", res["name"])

	status, res = doRequest(t, app, "", "")
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "Invalid request body", res["message"])
}
