// Package docs registers the OpenAPI description served by gin-swagger.
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
        "/auth/register": {
            "post": {"tags": ["auth"], "summary": "Create an account", "responses": {"201": {"description": "Created"}, "400": {"description": "Invalid input"}, "409": {"description": "Email taken"}}}
        },
        "/auth/login": {
            "post": {"tags": ["auth"], "summary": "Exchange credentials for a bearer token", "responses": {"200": {"description": "OK"}, "401": {"description": "Invalid credentials"}}}
        },
        "/profile": {
            "get": {"tags": ["profile"], "summary": "Current user's profile", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthenticated"}}},
            "put": {"tags": ["profile"], "summary": "Update username, gender, birth date and optionally the password", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation failed"}, "404": {"description": "User not found"}}}
        },
        "/tracker": {
            "get": {
                "tags": ["tracker"], "summary": "Daily tracker view", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "date", "in": "query", "type": "string", "description": "YYYY-MM-DD, defaults to today"}],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tracker/entries": {
            "post": {"tags": ["tracker"], "summary": "Log a food or drink", "security": [{"BearerAuth": []}], "responses": {"201": {"description": "Created"}, "400": {"description": "Validation failed"}, "422": {"description": "Past date is read-only"}}}
        },
        "/tracker/entries/{id}": {
            "delete": {
                "tags": ["tracker"], "summary": "Delete a logged entry", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "403": {"description": "Not the owner"}, "404": {"description": "Not found"}, "422": {"description": "Past date is read-only"}}
            }
        },
        "/tracker/targets": {
            "put": {"tags": ["tracker"], "summary": "Set the day's targets", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}, "400": {"description": "Validation failed"}}}
        },
        "/tracker/history": {
            "get": {
                "tags": ["history"], "summary": "Trailing window with rollup", "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "days", "in": "query", "type": "integer"},
                    {"name": "anchor", "in": "query", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}}
            }
        },
        "/tracker/history/{date}": {
            "get": {
                "tags": ["history"], "summary": "One recorded day with its entries", "security": [{"BearerAuth": []}],
                "parameters": [{"name": "date", "in": "path", "required": true, "type": "string"}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "No record for that day"}}
            }
        },
        "/calculators/bmi": {
            "post": {"tags": ["calculators"], "summary": "Compute BMI", "responses": {"200": {"description": "Guest result"}, "201": {"description": "Saved"}}},
            "get": {"tags": ["calculators"], "summary": "BMI history", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/calculators/bmi/{id}": {
            "delete": {"tags": ["calculators"], "summary": "Delete a BMI record", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Deleted"}}}
        },
        "/calculators/calories": {
            "post": {"tags": ["calculators"], "summary": "Compute daily calorie needs", "responses": {"200": {"description": "Guest result"}, "201": {"description": "Saved"}}},
            "get": {"tags": ["calculators"], "summary": "Calorie calculation history", "security": [{"BearerAuth": []}], "responses": {"200": {"description": "OK"}}}
        },
        "/calculators/calories/{id}": {
            "delete": {"tags": ["calculators"], "summary": "Delete a calorie calculation", "security": [{"BearerAuth": []}], "responses": {"204": {"description": "Deleted"}}}
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api/v1",
	Schemes:          []string{},
	Title:            "CaloMeter API",
	Description:      "Daily calorie and water tracking with smart target suggestions.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
