package models

// StatusHealthy is the only status the liveness endpoint reports
const StatusHealthy = "healthy"

// HealthResponse represents the response from the health check endpoint
type HealthResponse struct {
	Status string `json:"status" example:"healthy"`
}
