package dto

// ActionResponse is the JSON body returned by the delete endpoints
type ActionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// HealthResponse is the JSON body of the health endpoint
type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}
