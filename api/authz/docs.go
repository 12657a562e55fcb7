// Package authz holds the Swagger document served at /swagger/.
package authz

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "AussieBroadWAN Team",
            "url": "https://github.com/aussiebroadwan/useraccount"
        },
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/auth/validate-token": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Returns the authorization verdict for the bearer token, including the user's rights",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Validate access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.AuthorizationResult"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/auth/login": {
            "post": {
                "description": "Exchanges email and password for tokens at the identity provider and records the access token",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Log in",
                "parameters": [
                    {"description": "Credentials", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.LoginResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/auth/refresh-token": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Trades a refresh token for a new access token. The access token presented must not be blacklisted and must be less than 2 hours old",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Refresh access token",
                "parameters": [
                    {"description": "Refresh token", "name": "body", "in": "body", "required": true, "schema": {"$ref": "#/definitions/http.RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.RefreshResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/auth/signout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Signs the user out at the identity provider and blacklists the access token",
                "produces": ["application/json"],
                "tags": ["Auth"],
                "summary": "Sign out",
                "responses": {
                    "200": {"description": "OK"},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/monitor": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Monitor"],
                "summary": "Server date",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.MonitorResponse"}}
                }
            }
        },
        "/monitor/clear-tokens": {
            "post": {
                "security": [{"BearerAuth": []}],
                "description": "Deletes issued and blacklisted token records older than the retention window. Requires the system right",
                "produces": ["application/json"],
                "tags": ["Monitor"],
                "summary": "Prune the token ledger",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.ClearTokensResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/httpx.Message"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/httpx.Message"}}
                }
            }
        },
        "/livez": {
            "get": {
                "description": "Always 200 while the process is serving",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        },
        "/readyz": {
            "get": {
                "description": "Checks the database and that verification keys are loaded. A cache outage is reported but does not fail the probe",
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/http.HealthResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/http.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.AuthorizationResult": {
            "type": "object",
            "properties": {
                "isAuthenticated": {"type": "boolean"},
                "errorCode": {"type": "string"},
                "userUuid": {"type": "string"},
                "jwtId": {"type": "string"},
                "clientName": {"type": "string"},
                "rights": {"type": "array", "items": {"type": "string"}}
            }
        },
        "httpx.Message": {
            "type": "object",
            "properties": {
                "message": {"type": "string"},
                "isUserError": {"type": "boolean"}
            }
        },
        "http.LoginRequest": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "http.AuthenticationResult": {
            "type": "object",
            "properties": {
                "AccessToken": {"type": "string"},
                "RefreshToken": {"type": "string"},
                "TokenType": {"type": "string"},
                "ExpiresIn": {"type": "integer"}
            }
        },
        "http.LoginResponse": {
            "type": "object",
            "properties": {
                "AuthenticationResult": {"$ref": "#/definitions/http.AuthenticationResult"}
            }
        },
        "http.RefreshRequest": {
            "type": "object",
            "properties": {
                "refreshToken": {"type": "string"}
            }
        },
        "http.RefreshResponse": {
            "type": "object",
            "properties": {
                "AccessToken": {"type": "string"}
            }
        },
        "http.MonitorResponse": {
            "type": "object",
            "properties": {
                "date": {"type": "string"}
            }
        },
        "http.ClearTokensResponse": {
            "type": "object",
            "properties": {
                "blacklistedDeleted": {"type": "integer"},
                "issuedDeleted": {"type": "integer"}
            }
        },
        "http.HealthChecks": {
            "type": "object",
            "properties": {
                "database": {"type": "string"},
                "cache": {"type": "string"},
                "keys": {"type": "string"}
            }
        },
        "http.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "uptime": {"type": "string"},
                "version": {"type": "string"},
                "checks": {"$ref": "#/definitions/http.HealthChecks"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "Access token. Format: \"Bearer {token}\".",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "0.1.0",
	Host:             "localhost:8080",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "User Account Authorization API",
	Description:      "Validates identity provider access tokens, tracks issued and revoked tokens, and brokers login, refresh and sign-out.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
