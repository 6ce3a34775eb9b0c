package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the auth service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>auth-service Swagger</title>
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

// Minimal OpenAPI document describing the OAuth login endpoints.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "auth-service", "version": "v0.1.0" },
  "paths": {
    "/oauth/{provider}": {
      "get": {
        "summary": "Start an OAuth login (redirects to the provider)",
        "parameters": [ { "name": "provider", "in": "path", "required": true, "schema": { "type": "string", "enum": ["google", "github"] } } ],
        "responses": { "302": { "description": "redirect to provider authorization page" }, "404": { "description": "unknown provider" } }
      }
    },
    "/oauth/{provider}/callback": {
      "get": {
        "summary": "Provider redirect target; exchanges the code and issues a session token",
        "parameters": [
          { "name": "provider", "in": "path", "required": true, "schema": { "type": "string" } },
          { "name": "code", "in": "query", "schema": { "type": "string" } },
          { "name": "state", "in": "query", "schema": { "type": "string" } }
        ],
        "responses": {
          "200": { "description": "login successful", "content": { "application/json": { "schema": { "type": "object", "properties": { "success": { "type": "boolean" }, "message": { "type": "string" }, "token": { "type": "string" }, "user": { "type": "object", "properties": { "id": { "type": "string" }, "email": { "type": "string" }, "name": { "type": "string" } } } } } } } },
          "400": { "description": "authentication failed" }
        }
      }
    },
    "/auth/logout": {
      "post": { "summary": "Revoke the presented session token", "responses": { "200": { "description": "logged out" }, "400": { "description": "missing or invalid token" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Get the authenticated user", "responses": { "200": { "description": "user" }, "401": { "description": "invalid or revoked session" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
