package models

// ServiceInfo holds descriptive metadata about the running service
type ServiceInfo struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Version     string `json:"version"`
}

// CostService describes this service
var CostService = ServiceInfo{
	Title:       "Hosterizer Cost Service",
	Description: "Cost management and tracking service",
	Version:     "0.1.0",
}
