// Package docs holds the OpenAPI description of the HTTP API.
// It is kept in step with the godoc annotations on the handlers.
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
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register account",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.RegisterRequest"}}],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.UserSummary"}},
                    "400": {"description": "Invalid input", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "409": {"description": "Email already registered", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "User login",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/domain.LoginRequest"}}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LoginResponse"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Logout user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}}
            }
        },
        "/auth/logout-all": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Logout everywhere",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}}
            }
        },
        "/auth/sessions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "List sessions",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.SessionSummary"}}}}
            }
        },
        "/auth/sessions/{id}": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Authentication"],
                "summary": "Revoke session",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}},
                    "404": {"description": "Session not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/me": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Users"],
                "summary": "Get current user",
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserSummary"}}}
            }
        },
        "/documents/upload/{lessonId}": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "Upload document",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"type": "integer", "name": "lessonId", "in": "path", "required": true},
                    {"type": "file", "name": "file", "in": "formData", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Document"}},
                    "400": {"description": "Missing file or unsupported type", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "404": {"description": "Lesson not found", "schema": {"$ref": "#/definitions/http.ErrorResponse"}},
                    "413": {"description": "File too large", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/documents/lesson/{lessonId}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "List lesson documents",
                "parameters": [{"type": "integer", "name": "lessonId", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Document"}}}}
            }
        },
        "/documents/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "Get document",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Document"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Documents"],
                "summary": "Delete document",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/http.StatusResponse"}}}
            }
        },
        "/documents/{id}/parse": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "Preview conversion",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ParseResult"}},
                    "422": {"description": "Document cannot be parsed", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/documents/{id}/convert": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "Convert document to lesson",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"type": "boolean", "name": "async", "in": "query"},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/http.convertRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ConversionResult"}},
                    "202": {"description": "Queued", "schema": {"$ref": "#/definitions/domain.Task"}},
                    "403": {"description": "Access denied", "schema": {"$ref": "#/definitions/domain.ConversionResult"}},
                    "404": {"description": "Document not found", "schema": {"$ref": "#/definitions/domain.ConversionResult"}},
                    "409": {"description": "Already converted or in progress", "schema": {"$ref": "#/definitions/domain.ConversionResult"}},
                    "422": {"description": "Document cannot be parsed", "schema": {"$ref": "#/definitions/domain.ConversionResult"}},
                    "500": {"description": "Storage failure", "schema": {"$ref": "#/definitions/domain.ConversionResult"}}
                }
            }
        },
        "/documents/{id}/conversion-status": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "Conversion status",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ConversionStatus"}}}
            }
        },
        "/documents/{id}/conversion-error": {
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "Clear conversion error",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.ConversionStatus"}}}
            }
        },
        "/tasks": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "List conversion tasks",
                "parameters": [
                    {"type": "string", "name": "status", "in": "query"},
                    {"type": "integer", "name": "limit", "in": "query"},
                    {"type": "integer", "name": "offset", "in": "query"}
                ],
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Task"}}}}
            }
        },
        "/tasks/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "Get conversion task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}}}
            },
            "delete": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "Cancel conversion task",
                "parameters": [{"type": "string", "name": "id", "in": "path", "required": true}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Task"}},
                    "409": {"description": "Task is no longer pending", "schema": {"$ref": "#/definitions/http.ErrorResponse"}}
                }
            }
        },
        "/lessons": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Lessons"],
                "summary": "Create lesson",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/driving.CreateLessonRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Lesson"}}}
            }
        },
        "/lessons/{id}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Lessons"],
                "summary": "Get lesson",
                "parameters": [{"type": "integer", "name": "id", "in": "path", "required": true}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Lesson"}}}
            }
        },
        "/lessons/{id}/convert": {
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Conversion"],
                "summary": "Convert lesson documents",
                "parameters": [
                    {"type": "integer", "name": "id", "in": "path", "required": true},
                    {"in": "body", "name": "request", "schema": {"$ref": "#/definitions/http.convertRequest"}}
                ],
                "responses": {"202": {"description": "Accepted", "schema": {"$ref": "#/definitions/http.lessonConversionResponse"}}}
            }
        },
        "/categories": {
            "get": {
                "security": [{"BearerAuth": []}],
                "tags": ["Categories"],
                "summary": "List categories",
                "responses": {"200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Category"}}}}
            },
            "post": {
                "security": [{"BearerAuth": []}],
                "tags": ["Categories"],
                "summary": "Create category",
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/driving.CreateCategoryRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.Category"}}}
            }
        }
    },
    "definitions": {
        "domain.RegisterRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}, "full_name": {"type": "string"}}},
        "domain.LoginRequest": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "domain.LoginResponse": {"type": "object", "properties": {"token": {"type": "string"}, "expires_at": {"type": "string"}, "user": {"$ref": "#/definitions/domain.UserSummary"}}},
        "domain.UserSummary": {"type": "object", "properties": {"id": {"type": "integer"}, "email": {"type": "string"}, "full_name": {"type": "string"}, "active": {"type": "boolean"}, "last_login_at": {"type": "string"}}},
        "domain.Document": {"type": "object", "properties": {"id": {"type": "integer"}, "lesson_id": {"type": "integer"}, "original_filename": {"type": "string"}, "file_type": {"type": "string"}, "file_path": {"type": "string"}, "uploaded_at": {"type": "string"}, "converted": {"type": "boolean"}, "converted_lesson_id": {"type": "integer"}, "conversion_error": {"type": "string"}}},
        "domain.ParseResult": {"type": "object", "properties": {"title": {"type": "string"}, "content": {"type": "string"}, "summary": {"type": "string"}}},
        "domain.ConversionResult": {"type": "object", "properties": {"status": {"type": "string", "enum": ["success", "failed"]}, "lesson_id": {"type": "integer"}, "error": {"type": "string"}, "code": {"type": "string"}}},
        "domain.ConversionStatus": {"type": "object", "properties": {"document_id": {"type": "integer"}, "converted": {"type": "boolean"}, "converted_lesson_id": {"type": "integer"}, "conversion_error": {"type": "string"}, "can_convert": {"type": "boolean"}, "can_parse": {"type": "boolean"}}},
        "domain.SessionSummary": {"type": "object", "properties": {"id": {"type": "string"}, "created_at": {"type": "string"}, "expires_at": {"type": "string"}, "user_agent": {"type": "string"}, "ip_address": {"type": "string"}, "current": {"type": "boolean"}}},
        "domain.Task": {"type": "object", "properties": {"id": {"type": "string"}, "type": {"type": "string"}, "user_id": {"type": "integer"}, "status": {"type": "string"}, "attempts": {"type": "integer"}, "error": {"type": "string"}}},
        "domain.Lesson": {"type": "object", "properties": {"id": {"type": "integer"}, "user_id": {"type": "integer"}, "category_id": {"type": "integer"}, "title": {"type": "string"}, "content": {"type": "string"}, "summary": {"type": "string"}}},
        "domain.Category": {"type": "object", "properties": {"id": {"type": "integer"}, "user_id": {"type": "integer"}, "name": {"type": "string"}, "description": {"type": "string"}}},
        "driving.CreateLessonRequest": {"type": "object", "properties": {"title": {"type": "string"}, "content": {"type": "string"}, "category_id": {"type": "integer"}}},
        "driving.CreateCategoryRequest": {"type": "object", "properties": {"name": {"type": "string"}, "description": {"type": "string"}}},
        "http.convertRequest": {"type": "object", "properties": {"category_id": {"type": "integer"}, "generate_summary": {"type": "boolean"}}},
        "http.lessonConversionResponse": {"type": "object", "properties": {"tasks": {"type": "array", "items": {"$ref": "#/definitions/domain.Task"}}}},
        "http.ErrorResponse": {"type": "object", "properties": {"error": {"type": "string"}}},
        "http.StatusResponse": {"type": "object", "properties": {"status": {"type": "string"}}}
    },
    "securityDefinitions": {
        "BearerAuth": {"description": "JWT Bearer token. Format: \"Bearer {token}\"", "type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "EduTech Core API",
	Description:      "Lesson management API. Uploaded documents are parsed and converted into lessons.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
