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
        "/api/v1/health": {
            "get": {"tags": ["System"], "summary": "Health check", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Dependency unavailable"}}}
        },
        "/api/v1/calculator/cme": {
            "post": {"tags": ["Calculator"], "summary": "Требование CME", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.CMERequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}}}
        },
        "/api/v1/calculator/savings": {
            "post": {"tags": ["Calculator"], "summary": "Экономия при известном расстоянии", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.SavingsRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/utils.ErrorResponse"}}}}
        },
        "/api/v1/calculator/projection": {
            "post": {"tags": ["Calculator"], "summary": "Полный расчёт по адресам", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.ProjectionRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "404": {"description": "Location not found"}}}
        },
        "/api/v1/geocode": {
            "get": {"tags": ["Geocoding"], "summary": "Прямое геокодирование", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "q", "type": "string", "required": true}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Location not found"}}}
        },
        "/api/v1/reverse-geocode": {
            "get": {"tags": ["Geocoding"], "summary": "Обратное геокодирование", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "lat", "type": "number", "required": true}, {"in": "query", "name": "lon", "type": "number", "required": true}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid coordinates"}}}
        },
        "/api/v1/distance": {
            "post": {"tags": ["Geocoding"], "summary": "Расстояние на автомобиле", "consumes": ["application/json"], "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.DistanceRequest"}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Invalid coordinates"}}}
        },
        "/api/v1/maps/static": {
            "post": {"tags": ["Maps"], "summary": "Статическая карта с маркерами", "consumes": ["application/json"], "produces": ["image/png"],
                "parameters": [{"in": "body", "name": "request", "required": true, "schema": {"$ref": "#/definitions/dto.StaticMapRequest"}}],
                "responses": {"200": {"description": "PNG"}, "400": {"description": "Bad Request"}, "502": {"description": "Provider unavailable"}}}
        },
        "/api/v1/maps/zoom": {
            "get": {"tags": ["Maps"], "summary": "Оптимальный зум для маркеров", "produces": ["application/json"],
                "parameters": [{"in": "query", "name": "markers", "type": "string", "required": true, "description": "lat,lon;lat,lon"}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}}}
        },
        "/api/v1/tiles/{z}/{x}/{y}.png": {
            "get": {"tags": ["Maps"], "summary": "Растровый тайл", "produces": ["image/png"],
                "parameters": [{"in": "path", "name": "z", "type": "integer", "required": true}, {"in": "path", "name": "x", "type": "integer", "required": true}, {"in": "path", "name": "y", "type": "integer", "required": true}],
                "responses": {"200": {"description": "PNG"}, "400": {"description": "Invalid tile"}, "502": {"description": "Provider unavailable"}}}
        },
        "/api/v1/stats": {
            "get": {"tags": ["Statistics"], "summary": "Статистика расчётов", "produces": ["application/json"],
                "responses": {"200": {"description": "OK"}}}
        }
    },
    "definitions": {
        "domain.Coordinate": {"type": "object", "properties": {"lat": {"type": "number"}, "lon": {"type": "number"}}},
        "dto.CMERequest": {"type": "object", "properties": {
            "duration_minutes": {"type": "integer", "maximum": 1440, "minimum": 1},
            "learning_control": {"type": "boolean"},
            "interactive": {"type": "boolean"}}},
        "dto.SavingsRequest": {"type": "object", "properties": {
            "sessions_per_year": {"type": "integer"},
            "session_hours": {"type": "number"},
            "one_way_distance_km": {"type": "number"},
            "one_way_travel_minutes": {"type": "number"},
            "participants": {"type": "integer"},
            "years": {"type": "integer"}}},
        "dto.ProjectionRequest": {"type": "object", "properties": {
            "practice_address": {"type": "string"},
            "venue_address": {"type": "string"},
            "session": {"$ref": "#/definitions/dto.CMERequest"},
            "sessions_per_year": {"type": "integer"},
            "participants": {"type": "integer"},
            "years": {"type": "integer"}}},
        "dto.DistanceRequest": {"type": "object", "properties": {
            "from": {"$ref": "#/definitions/domain.Coordinate"},
            "to": {"$ref": "#/definitions/domain.Coordinate"}}},
        "dto.StaticMapRequest": {"type": "object", "properties": {
            "center": {"$ref": "#/definitions/domain.Coordinate"},
            "markers": {"type": "array", "items": {"$ref": "#/definitions/domain.Coordinate"}},
            "width": {"type": "integer"},
            "height": {"type": "integer"},
            "zoom": {"type": "integer"}}},
        "utils.ErrorResponse": {"type": "object", "properties": {"error": {"type": "object", "properties": {
            "code": {"type": "string"},
            "message": {"type": "string"},
            "details": {"type": "object"}}}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "CME Savings Service API",
	Description:      "CME requirement and savings calculator with map provider facade",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
