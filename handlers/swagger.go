package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the DAO API.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg gin.IRouter) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(swaggerHTML))
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>skillshare-dao API docs</title>
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
  "info": { "title": "skillshare-dao", "version": "v0.1.0" },
  "components": {
    "schemas": {
      "Error": { "type": "object", "properties": { "error": { "type": "string" }, "message": { "type": "string" } } },
      "Profile": { "type": "object", "properties": { "id": {"type":"string"}, "name": {"type":"string"}, "skills": {"type":"array","items":{"type":"string"}}, "role": {"type":"string","enum":["learner","professional"]}, "reputation": {"type":"integer"} } },
      "Proposal": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "description": {"type":"string"}, "votes": {"type":"object","additionalProperties":{"type":"boolean"}}, "status": {"type":"string","enum":["open","closed"]} } },
      "Product": { "type": "object", "properties": { "id": {"type":"string"}, "title": {"type":"string"}, "description": {"type":"string"}, "location": {"type":"string"}, "attachmentURL": {"type":"string"}, "seller": {"type":"string"}, "price": {"type":"integer"}, "soldAmount": {"type":"integer"} } },
      "Order": { "type": "object", "properties": { "id": {"type":"string"}, "productId": {"type":"string"}, "price": {"type":"integer"}, "seller": {"type":"string"}, "buyer": {"type":"string"}, "status": {"type":"string"}, "createdAt": {"type":"string","format":"date-time"} } }
    }
  },
  "paths": {
    "/profile": {
      "post": {
        "summary": "Create or overwrite a profile",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["id","role"],"properties":{"id":{"type":"string"},"name":{"type":"string"},"skills":{"type":"array","items":{"type":"string"}},"role":{"type":"string","enum":["learner","professional"]}}}}}},
        "responses": { "200": { "description": "confirmation message and stored profile" }, "400": { "description": "invalid body" } }
      }
    },
    "/profile/{id}": { "get": { "summary": "Fetch a profile", "responses": { "200": { "description": "profile" }, "404": { "description": "Profile not found" } } } },
    "/profiles": { "get": { "summary": "List profiles ordered by id", "responses": { "200": { "description": "profiles" } } } },
    "/proposal": {
      "post": {
        "summary": "Create an open proposal",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["title"],"properties":{"title":{"type":"string"},"description":{"type":"string"}}}}}},
        "responses": { "201": { "description": "created proposal and confirmation message" }, "400": { "description": "invalid body" } }
      }
    },
    "/proposal/{id}": { "get": { "summary": "Fetch a proposal with its votes", "responses": { "200": { "description": "proposal" }, "404": { "description": "not found" } } } },
    "/proposals": { "get": { "summary": "List proposals", "responses": { "200": { "description": "proposals" } } } },
    "/proposal/{id}/vote": {
      "post": {
        "summary": "Record or overwrite a vote while the proposal is open",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","required":["userId","vote"],"properties":{"userId":{"type":"string"},"vote":{"type":"boolean"}}}}}},
        "responses": { "200": { "description": "vote registered" }, "400": { "description": "invalid body" }, "404": { "description": "not found" }, "409": { "description": "proposal closed" } }
      }
    },
    "/proposal/{id}/close": { "post": { "summary": "Close a proposal (idempotent)", "responses": { "200": { "description": "closed" }, "404": { "description": "not found" } } } },
    "/proposal/{id}/archive": { "get": { "summary": "Presigned URL of a closed proposal snapshot", "responses": { "200": { "description": "url" }, "404": { "description": "not found" }, "409": { "description": "still open" }, "503": { "description": "archive not configured" } } } },
    "/products": {
      "get": { "summary": "List products", "responses": { "200": { "description": "products" } } },
      "post": { "summary": "Create a product; the caller's principal becomes the seller", "responses": { "201": { "description": "product" }, "400": { "description": "invalid body" } } }
    },
    "/products/{id}": { "get": { "summary": "Fetch a product", "responses": { "200": { "description": "product" }, "404": { "description": "not found" } } } },
    "/orders": { "post": { "summary": "Record a pending order for a product", "responses": { "201": { "description": "order" }, "404": { "description": "unknown product" } } } },
    "/orders/{id}": { "get": { "summary": "Fetch an order", "responses": { "200": { "description": "order" }, "404": { "description": "not found" } } } },
    "/principal-to-address/{principal}": { "get": { "summary": "Ledger account identifier of a principal", "responses": { "200": { "description": "hex account id (text/plain)" }, "400": { "description": "malformed principal" } } } },
    "/auth/login": {
      "post": {
        "summary": "Exchange authorization code / login",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"mode":{"type":"string","enum":["auth_code","password"]},"username":{"type":"string"},"password":{"type":"string"},"code":{"type":"string"},"redirect_uri":{"type":"string"}}}}}},
        "responses": { "200": { "description": "tokens and principal" }, "401": { "description": "authentication failed" }, "503": { "description": "identity provider not configured" } }
      }
    },
    "/auth/refresh": {
      "post": { "summary": "Refresh access token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "new access token" }, "401": { "description": "invalid refresh" } } }
    },
    "/auth/logout": {
      "post": { "summary": "Logout and invalidate refresh token", "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"refresh_token":{"type":"string"}}}}}}, "responses": { "200": { "description": "logged out" } } }
    },
    "/api/v1/me": {
      "get": { "summary": "Caller principal and profile", "responses": { "200": { "description": "principal and optional profile" }, "401": { "description": "unauthenticated" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } },
    "/metrics": { "get": { "summary": "Prometheus metrics", "responses": { "200": { "description": "metrics" } } } }
  }
}`
