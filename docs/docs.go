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
        "/automation": {
            "get": {
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Get automation requests and articles",
                "parameters": [
                    {"type": "string", "description": "Request ID", "name": "requestId", "in": "query"},
                    {"type": "string", "description": "Article ID", "name": "articleId", "in": "query"},
                    {"type": "integer", "description": "Maximum items per list", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": true}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "description": "Research the input, write an article and archive both",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["automation"],
                "summary": "Run an automation request",
                "parameters": [
                    {"description": "Automation request", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GenerationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.AutomationResponse"}},
                    "400": {"description": "Input and type are required", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "500": {"description": "Automation process failed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/generation-progress": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Start a generation",
                "parameters": [
                    {"description": "Generation input", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GenerationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/generation-progress/{id}": {
            "get": {
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Get generation progress",
                "parameters": [
                    {"type": "string", "description": "Generation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GenerationRecord"}},
                    "404": {"description": "Generation not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Start a generation with a caller-chosen id",
                "parameters": [
                    {"type": "string", "description": "Generation ID", "name": "id", "in": "path", "required": true},
                    {"description": "Generation input", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GenerationRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StartResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Generation already running", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            },
            "delete": {
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Cancel a generation",
                "parameters": [
                    {"type": "string", "description": "Generation ID", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.StartResponse"}},
                    "404": {"description": "Generation not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "409": {"description": "Generation is not running", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/research": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Research a query",
                "parameters": [
                    {"description": "Query", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.QueryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.ResearchResult"}},
                    "500": {"description": "Research failed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/generate": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Generate an article from a prompt",
                "parameters": [
                    {"description": "Prompt and options", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.GenerateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/model.GenerationResult"}},
                    "500": {"description": "Content generation failed", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        },
        "/web-search": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["content"],
                "summary": "Web search",
                "parameters": [
                    {"description": "Query", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handler.QueryRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.SearchResponse"}},
                    "500": {"description": "Web search failed", "schema": {"type": "object", "additionalProperties": true}}
                }
            }
        },
        "/articles/{id}/export": {
            "get": {
                "produces": ["text/html", "text/markdown", "application/json"],
                "tags": ["articles"],
                "summary": "Export an article",
                "parameters": [
                    {"type": "string", "description": "Article ID or generation ID", "name": "id", "in": "path", "required": true},
                    {"type": "string", "default": "html", "description": "html, markdown or json", "name": "format", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "file"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}},
                    "404": {"description": "Article not found", "schema": {"$ref": "#/definitions/handler.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.ErrorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.AutomationResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "articleId": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.StartResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "generationId": {"type": "string"},
                "message": {"type": "string"}
            }
        },
        "handler.GenerationRequest": {
            "type": "object",
            "required": ["input", "type"],
            "properties": {
                "input": {"type": "string"},
                "type": {"type": "string", "enum": ["keyword", "url", "topic"]},
                "options": {"$ref": "#/definitions/model.GenerationOptions"}
            }
        },
        "handler.QueryRequest": {
            "type": "object",
            "required": ["query"],
            "properties": {"query": {"type": "string"}}
        },
        "handler.GenerateRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {
                "prompt": {"type": "string"},
                "wordCount": {"type": "integer"},
                "tone": {"type": "string"},
                "researchData": {"$ref": "#/definitions/model.ResearchData"}
            }
        },
        "handler.SearchResponse": {
            "type": "object",
            "properties": {
                "results": {"type": "array", "items": {"$ref": "#/definitions/model.SearchResult"}},
                "query": {"type": "string"},
                "timestamp": {"type": "string"}
            }
        },
        "model.GenerationOptions": {
            "type": "object",
            "properties": {
                "wordCount": {"type": "integer", "minimum": 100, "maximum": 10000},
                "tone": {"type": "string", "enum": ["professional", "casual", "authoritative", "friendly"]},
                "targetKeywords": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.Source": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "title": {"type": "string"},
                "excerpt": {"type": "string"},
                "relevance": {"type": "number"},
                "timestamp": {"type": "string"},
                "publishDate": {"type": "string"},
                "keyPoints": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.ResearchData": {
            "type": "object",
            "properties": {
                "sources": {"type": "array", "items": {"$ref": "#/definitions/model.Source"}},
                "keyPoints": {"type": "array", "items": {"type": "string"}},
                "relatedTopics": {"type": "array", "items": {"type": "string"}},
                "statistics": {"type": "array", "items": {"type": "string"}},
                "quotes": {"type": "array", "items": {"type": "string"}}
            }
        },
        "model.ResearchResult": {
            "type": "object",
            "properties": {
                "content": {"type": "string"},
                "sources": {"type": "array", "items": {"$ref": "#/definitions/model.Source"}},
                "metadata": {"type": "object", "additionalProperties": true}
            }
        },
        "model.GenerationResult": {
            "type": "object",
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "metaDescription": {"type": "string"}
            }
        },
        "model.SearchResult": {
            "type": "object",
            "properties": {
                "url": {"type": "string"},
                "title": {"type": "string"},
                "snippet": {"type": "string"}
            }
        },
        "model.GenerationRecord": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "input": {"type": "string"},
                "type": {"type": "string"},
                "options": {"$ref": "#/definitions/model.GenerationOptions"},
                "startTime": {"type": "string"},
                "currentStep": {"type": "integer"},
                "steps": {"type": "array", "items": {"type": "object", "additionalProperties": true}},
                "sources": {"type": "array", "items": {"$ref": "#/definitions/model.Source"}},
                "keyPoints": {"type": "array", "items": {"type": "string"}},
                "statistics": {"type": "array", "items": {"type": "string"}},
                "articlePreview": {"type": "string"},
                "article": {"type": "object", "additionalProperties": true},
                "seoData": {"type": "object", "additionalProperties": true},
                "status": {"type": "string", "enum": ["started", "completed", "error", "cancelled"]},
                "error": {"type": "string"},
                "completedAt": {"type": "string"},
                "updatedAt": {"type": "string"}
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
	Title:            "ContentFlow API",
	Description:      "Research-driven article generation with polled progress.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
