package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string   `json:"code"`
	Message string   `json:"error"`
	Fields  []string `json:"fields,omitempty"`
	Data    any      `json:"data,omitempty"` // resultado parcial (importación interrumpida)
}

// DataResponse cuerpo de respuesta exitosa.
type DataResponse struct {
	Data any `json:"data"`
}
