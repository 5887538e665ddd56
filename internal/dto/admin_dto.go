package dto

import "safetalk-hive-be/pkg/store"

type SendAlertRequest struct {
	Number  string `json:"number" validate:"required"`
	Message string `json:"message" validate:"required"`
}

type SendAlertResponse struct {
	Status string `json:"status"`
}

// SessionSnapshot is one entry of the GET /sessions view.
type SessionSnapshot struct {
	Active          bool               `json:"active"`
	ScamType        string             `json:"scam_type"`
	Turns           int                `json:"turns"`
	Intel           *store.IntelRecord `json:"intel"`
	DurationSeconds int64              `json:"duration_seconds"`
}

type HealthResponse struct {
	Status   string            `json:"status"`
	Service  string            `json:"service"`
	Features map[string]string `json:"features"`
}
