package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Header("Content-Type", "application/json")
		c.String(http.StatusOK, swaggerJSON)
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>privateboard — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "privateboard", "version": "v0.1.0" },
  "paths": {
    "/posts": {
      "post": {
        "summary": "Create a password-protected post",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title","content","password"],"properties":{"title":{"type":"string"},"content":{"type":"string"},"password":{"type":"string"},"expiresIn":{"type":"integer","description":"lifetime in hours; omit for no expiry"}}}}}},
        "responses": { "201": { "description": "slug returned" }, "400": { "description": "missing fields" } }
      }
    },
    "/posts/{slug}/unlock": {
      "post": {
        "summary": "Unlock a post with its password",
        "parameters": [{"name":"slug","in":"path","required":true,"schema":{"type":"string"}}],
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["password"],"properties":{"password":{"type":"string"}}}}}},
        "responses": { "200": { "description": "title and content" }, "401": { "description": "wrong password" }, "404": { "description": "unknown slug" }, "410": { "description": "post expired" } }
      }
    },
    "/uploads/image": {
      "post": {
        "summary": "Upload an image (multipart field \"file\", max 5MB, jpeg/png/gif/webp)",
        "responses": { "201": { "description": "public URL returned" }, "400": { "description": "missing file or unsupported type" } }
      }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
