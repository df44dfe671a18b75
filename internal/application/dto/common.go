package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListResponse envoltorio {"json_list": ...} de las respuestas de lectura.
type ListResponse struct {
	JSONList any `json:"json_list"`
}
