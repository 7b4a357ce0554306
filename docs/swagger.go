// Package docs CME Savings Service API.
//
// Бэкенд калькулятора экономии на непрерывном образовании стоматологов (CME).
// Считает баллы и необходимое количество сессий, сравнивает затраты
// очного и онлайн-обучения, геокодирует адреса практики и мест проведения курсов,
// рендерит статические карты и проксирует растровые тайлы OSM для виджета.
//
//	Schemes: http, https
//	BasePath: /
//	Version: 1.0.0
//
//	Consumes:
//	- application/json
//
//	Produces:
//	- application/json
//	- image/png
//
// swagger:meta
package docs
