package api

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
        "/health": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["health"],
                "summary": "Health check",
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/accounts": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Create an account",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateAccountRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.AccountResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/accounts/{address}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Get an account",
                "parameters": [
                    {"type": "string", "name": "address", "in": "path", "required": true},
                    {"type": "boolean", "name": "data", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.AccountResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/accounts/{address}/airdrop": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["accounts"],
                "summary": "Airdrop lamports",
                "parameters": [
                    {"type": "string", "name": "address", "in": "path", "required": true},
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.AirdropRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.AirdropResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/listings": {
            "post": {
                "security": [{"ApiKeyAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Create a listing",
                "parameters": [
                    {"name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.CreateListingRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/api.ListingResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "402": {"description": "Payment Required", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/listings/{address}": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["listings"],
                "summary": "Inspect a listing",
                "parameters": [
                    {"type": "string", "name": "address", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.ListingResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/journal": {
            "get": {
                "security": [{"ApiKeyAuth": []}],
                "produces": ["application/json"],
                "tags": ["journal"],
                "summary": "Journal",
                "parameters": [
                    {"type": "integer", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.JournalResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"type": "string"},
                "code": {"type": "string"}
            }
        },
        "api.CreateAccountRequest": {
            "type": "object",
            "properties": {
                "owner": {"type": "string"},
                "space": {"type": "integer"},
                "lamports": {"type": "integer"},
                "listing": {"type": "boolean"}
            }
        },
        "api.AccountResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "owner": {"type": "string"},
                "lamports": {"type": "integer"},
                "space": {"type": "integer"},
                "data": {"type": "string", "format": "byte"}
            }
        },
        "api.AirdropRequest": {
            "type": "object",
            "properties": {
                "lamports": {"type": "integer"}
            }
        },
        "api.AirdropResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "balance": {"type": "integer"}
            }
        },
        "api.CreateListingRequest": {
            "type": "object",
            "properties": {
                "listing": {"type": "string"},
                "payer": {"type": "string"},
                "name": {"type": "string", "maxLength": 32},
                "description": {"type": "string", "maxLength": 32},
                "price": {"type": "integer"},
                "file": {"type": "string", "format": "byte"}
            }
        },
        "api.ListingResponse": {
            "type": "object",
            "properties": {
                "address": {"type": "string"},
                "initialized": {"type": "boolean"},
                "name": {"type": "string"},
                "description": {"type": "string"},
                "owner": {"type": "string"},
                "price": {"type": "integer"},
                "file": {"type": "string", "format": "byte"},
                "journal_id": {"type": "string"}
            }
        },
        "api.JournalResponse": {
            "type": "object",
            "properties": {
                "entries": {
                    "type": "array",
                    "items": {
                        "type": "object",
                        "properties": {
                            "id": {"type": "string"},
                            "operation": {"type": "string"},
                            "accounts": {"type": "array", "items": {"type": "string"}},
                            "timestamp": {"type": "string"}
                        }
                    }
                }
            }
        }
    },
    "securityDefinitions": {
        "ApiKeyAuth": {
            "type": "apiKey",
            "name": "X-API-Key",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "modelmarket REST API",
	Description:      "REST API for creating and inspecting AI model listings.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
