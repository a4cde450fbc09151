// Package docs registers the mock API's OpenAPI description with swag so
// gin-swagger can serve it.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    },
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["auth"],
                "summary": "Exchange the development credentials for a bearer token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/LoginResponse"}},
                    "400": {"description": "Invalid request body", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Invalid email or password", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/flights/search": {
            "get": {
                "tags": ["search"],
                "summary": "Search flight offers; the payload shape follows MOCKAPI_FLIGHT_SHAPE",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "origin", "type": "string", "required": true},
                    {"in": "query", "name": "destination", "type": "string", "required": true},
                    {"in": "query", "name": "date", "type": "string", "format": "date", "required": true},
                    {"in": "query", "name": "adults", "type": "integer", "minimum": 1, "maximum": 9}
                ],
                "responses": {
                    "200": {"description": "Flight offers"},
                    "400": {"description": "Invalid search parameters", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/hotel-search": {
            "get": {
                "tags": ["search"],
                "summary": "Search hotel offers",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "location", "type": "string", "required": true},
                    {"in": "query", "name": "checkIn", "type": "string", "format": "date", "required": true},
                    {"in": "query", "name": "checkOut", "type": "string", "format": "date", "required": true},
                    {"in": "query", "name": "guests", "type": "integer", "minimum": 1, "maximum": 8}
                ],
                "responses": {
                    "200": {"description": "Hotel offers"},
                    "400": {"description": "Invalid search parameters", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/bookings": {
            "get": {
                "tags": ["bookings"],
                "summary": "List the traveler's flight and hotel bookings",
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/BookingsResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/flight/bookings": {
            "post": {
                "tags": ["bookings"],
                "summary": "Book a flight offer exactly as returned by search",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "offer", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/BookingConfirmation"}},
                    "400": {"description": "Flight offer is missing required fields", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        },
        "/hotel/bookings": {
            "post": {
                "tags": ["bookings"],
                "summary": "Book a hotel offer exactly as returned by search",
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {"in": "body", "name": "offer", "required": true, "schema": {"type": "object"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/BookingConfirmation"}},
                    "400": {"description": "Hotel offer is missing required fields", "schema": {"$ref": "#/definitions/ErrorResponse"}},
                    "401": {"description": "Missing or invalid token", "schema": {"$ref": "#/definitions/ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"},
                "expires_in": {"type": "integer"}
            }
        },
        "BookingsResponse": {
            "type": "object",
            "properties": {
                "flights": {"type": "array", "items": {"type": "object"}},
                "hotels": {"type": "array", "items": {"type": "object"}}
            }
        },
        "BookingConfirmation": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "message": {"type": "string"},
                "booking": {"type": "object"}
            }
        },
        "ErrorResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "status_code": {"type": "integer"},
                "message": {"type": "string"},
                "error": {"type": "string"},
                "errors": {}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "tripdesk mock travel API",
	Description:      "Development stand-in for the travel API used by the tripdesk client.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
