// Package docs holds the OpenAPI description served at /swagger, in the
// layout produced by swaggo/swag.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Login",
                "parameters": [
                    {"description": "Login credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.loginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.loginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorsResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "429": {"description": "Too Many Requests", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/auth/validate": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Validate a token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ports.TokenValidation"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ports.TokenValidation"}}
                }
            }
        },
        "/users": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "List users",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.userResponse"}}},
                    "204": {"description": "No Content"}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Register a new user",
                "parameters": [
                    {"description": "User details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.createUserRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorsResponse"}}
                }
            }
        },
        "/users/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Get a user by id",
                "parameters": [{"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorsResponse"}}
                }
            },
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update a user (administrators)",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorsResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorsResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Delete a user",
                "parameters": [{"type": "string", "description": "User id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deleteResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorsResponse"}}
                }
            }
        },
        "/users/self/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["users"],
                "summary": "Update own profile",
                "parameters": [
                    {"type": "string", "description": "User id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.updateSelfRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.userResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorsResponse"}},
                    "403": {"description": "Forbidden", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        },
        "/roles": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "List roles",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/handler.roleResponse"}}},
                    "204": {"description": "No Content"}
                }
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Create a role",
                "parameters": [
                    {"description": "Role details", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.roleRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/handler.roleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorsResponse"}}
                }
            }
        },
        "/roles/{id}": {
            "patch": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Update a role",
                "parameters": [
                    {"type": "string", "description": "Role id", "name": "id", "in": "path", "required": true},
                    {"description": "Fields to change", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.roleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.roleResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorsResponse"}}
                }
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["roles"],
                "summary": "Delete a role",
                "parameters": [{"type": "string", "description": "Role id", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.deleteResponse"}},
                    "409": {"description": "Conflict", "schema": {"type": "object", "additionalProperties": {"type": "string"}}}
                }
            }
        }
    },
    "definitions": {
        "domain.ValidationError": {
            "type": "object",
            "properties": {"field": {"type": "string"}, "message": {"type": "string"}}
        },
        "handler.errorsResponse": {
            "type": "object",
            "properties": {"errors": {"type": "array", "items": {"$ref": "#/definitions/domain.ValidationError"}}}
        },
        "handler.loginRequest": {
            "type": "object",
            "properties": {"username": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.loginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}, "type": {"type": "string"}, "expiresAt": {"type": "string"},
                "username": {"type": "string"}, "email": {"type": "string"}, "role": {"type": "string"}, "userId": {"type": "string"}
            }
        },
        "handler.createUserRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string", "example": "Antonia Alarcon"},
                "username": {"type": "string", "example": "antoniaa"},
                "email": {"type": "string", "example": "antonia.alarcon@example.com"},
                "password": {"type": "string", "example": "password123"},
                "roleName": {"type": "string", "example": "USER"}
            }
        },
        "handler.updateSelfRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "password": {"type": "string"}}
        },
        "handler.updateUserRequest": {
            "type": "object",
            "properties": {"name": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"}, "roleName": {"type": "string"}}
        },
        "handler.userResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "username": {"type": "string"}, "email": {"type": "string"},
                "roleName": {"type": "string"}, "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        },
        "handler.roleRequest": {
            "type": "object",
            "properties": {"name": {"type": "string", "example": "AUDITOR"}, "description": {"type": "string", "example": "Read-only access"}}
        },
        "handler.roleResponse": {
            "type": "object",
            "properties": {
                "id": {"type": "string"}, "name": {"type": "string"}, "description": {"type": "string"},
                "createdAt": {"type": "string"}, "updatedAt": {"type": "string"}
            }
        },
        "handler.deleteResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}, "id": {"type": "string"}, "name": {"type": "string"}}
        },
        "ports.TokenValidation": {
            "type": "object",
            "properties": {"valid": {"type": "boolean"}, "username": {"type": "string"}, "role": {"type": "string"}}
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "User API",
	Description:      "User and role management with stateless JWT authentication.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
