// Package api holds shared response envelopes referenced by swagger annotations.
package api

type ErrorResponse struct {
	Error string `json:"error" example:"something went wrong, please try again"`
}

type MessageResponse struct {
	Message string `json:"message" example:"Email queued successfully"`
}

type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}
