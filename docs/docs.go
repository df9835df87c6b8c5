// Package docs registers the OpenAPI description served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/api/products": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "List products",
                "responses": {"200": {"description": "OK"}, "500": {"description": "Server Error"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Create a new product",
                "parameters": [{"in": "body", "name": "product", "required": true, "schema": {"$ref": "#/definitions/ProductRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Validation error or duplicate item code"}}
            }
        },
        "/api/products/import-excel": {
            "post": {
                "consumes": ["multipart/form-data"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Import products from a spreadsheet",
                "parameters": [{"type": "file", "in": "formData", "name": "excelFile", "required": true, "description": "Spreadsheet file (.xlsx, .xls or .csv)"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Rejected upload or invalid rows"}, "500": {"description": "Error processing Excel file"}}
            }
        },
        "/api/products/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Get a product by id",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Product not found"}}
            },
            "put": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Update a product",
                "parameters": [
                    {"type": "string", "in": "path", "name": "id", "required": true},
                    {"in": "body", "name": "product", "required": true, "schema": {"$ref": "#/definitions/ProductRequest"}}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Validation error or duplicate item code"}, "404": {"description": "Product not found"}}
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["products"],
                "summary": "Delete a product",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Product not found"}}
            }
        },
        "/api/users/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register an account and return a session token",
                "parameters": [{"in": "body", "name": "account", "required": true, "schema": {"$ref": "#/definitions/RegisterRequest"}}],
                "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid or duplicate account"}, "429": {"description": "Too many requests"}}
            }
        },
        "/api/users/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Log in and return a session token",
                "parameters": [{"in": "body", "name": "credentials", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad request"}, "401": {"description": "Invalid password"}, "404": {"description": "Account not found"}, "429": {"description": "Too many requests"}}
            }
        },
        "/api/users/profile": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Current account",
                "responses": {"200": {"description": "OK"}, "401": {"description": "Not authorized"}}
            }
        },
        "/api/users/all": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List all accounts",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not authorized to access this resource"}}
            }
        },
        "/api/users/bans": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List ban events",
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not authorized to access this resource"}}
            }
        },
        "/api/users/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete an account",
                "parameters": [{"type": "string", "in": "path", "name": "id", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Admin cannot delete their own account"}, "403": {"description": "Not authorized to delete users"}, "404": {"description": "User not found"}}
            }
        }
    },
    "definitions": {
        "ProductRequest": {
            "type": "object",
            "properties": {
                "itemCode": {"type": "string"},
                "itemDescription": {"type": "string"},
                "unit": {"type": "string"},
                "mrp": {"type": "number"},
                "dp": {"type": "number"},
                "nlc": {"type": "number"},
                "percentage": {"type": "number"}
            }
        },
        "RegisterRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "role": {"type": "string", "enum": ["admin", "user"]},
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phoneNumber": {"type": "string"}
            }
        },
        "LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"},
                "phoneNumber": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:5000",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Retail Inventory API",
	Description:      "REST API for the product catalog, spreadsheet imports and user accounts.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
