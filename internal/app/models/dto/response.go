package dto

// Response statuses used by the JSON endpoints
const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// StatusResponse represents the {status, message} body of the health check
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
