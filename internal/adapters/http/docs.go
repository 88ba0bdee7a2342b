package http

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/evoteli/api"
)

// The UI keeps the session ID it is issued so "Try it out" calls against
// /v1/map act on one map state.
const swaggerUIHTML = `<!DOCTYPE html>
<html lang="en">
<head>
  <meta charset="UTF-8">
  <title>Evoteli Map API</title>
  <link rel="stylesheet" href="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui.css">
  <style>body{margin:0;background:#fafafa}</style>
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://cdn.jsdelivr.net/npm/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    const sessionKey = 'evoteli-docs-session';
    SwaggerUIBundle({
      url: '/docs/openapi.json',
      dom_id: '#swagger-ui',
      deepLinking: true,
      presets: [SwaggerUIBundle.presets.apis],
      requestInterceptor: (req) => {
        const id = localStorage.getItem(sessionKey);
        if (id) req.headers['X-Session-ID'] = id;
        return req;
      },
      responseInterceptor: (res) => {
        const id = res.headers['x-session-id'];
        if (id) localStorage.setItem(sessionKey, id);
        return res;
      },
    });
  </script>
</body>
</html>`

type apiDocs struct {
	once sync.Once
	doc  *openapi3.T
	err  error
}

func (d *apiDocs) load() (*openapi3.T, error) {
	d.once.Do(func() {
		loader := &openapi3.Loader{IsExternalRefsAllowed: false}
		d.doc, d.err = loader.LoadFromData(api.Spec)
		if d.err != nil {
			d.err = fmt.Errorf("parse openapi: %w", d.err)
		}
	})
	return d.doc, d.err
}

// SetupDocs registers Swagger UI at /docs and the OpenAPI document at
// /docs/openapi.yaml (as written) and /docs/openapi.json (servers pointed at
// the host that served it).
func SetupDocs(app *fiber.App) {
	docs := &apiDocs{}

	app.Get("/docs", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.SendString(swaggerUIHTML)
	})

	app.Get("/docs/openapi.yaml", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, "application/yaml")
		return c.Send(api.Spec)
	})

	app.Get("/docs/openapi.json", func(c *fiber.Ctx) error {
		doc, err := docs.load()
		if err != nil {
			return writeError(c, err)
		}
		local := *doc
		local.Servers = openapi3.Servers{{URL: c.BaseURL(), Description: "This server"}}
		data, err := json.Marshal(&local)
		if err != nil {
			return writeError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.Send(data)
	})
}
