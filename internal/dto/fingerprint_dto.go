package dto

import "time"

type ScammerProfileResponse struct {
	Fingerprint    string               `json:"fingerprint"`
	FirstSeen      time.Time            `json:"first_seen"`
	LastSeen       time.Time            `json:"last_seen"`
	EncounterCount int                  `json:"encounter_count"`
	ScamTypes      []string             `json:"scam_types"`
	ThreatScore    float64              `json:"threat_score"`
	Status         string               `json:"status"`
	Notes          string               `json:"notes"`
	Identifiers    []IdentifierResponse `json:"identifiers"`
}

type IdentifierResponse struct {
	Type      string    `json:"type"`
	Value     string    `json:"value"`
	FirstSeen time.Time `json:"first_seen"`
}

type FingerprintLookupResponse struct {
	Found   bool                    `json:"found"`
	Scammer *ScammerProfileResponse `json:"scammer,omitempty"`
}

type FingerprintStatsResponse struct {
	TotalScammers    int64            `json:"total_scammers"`
	TotalIdentifiers int64            `json:"total_identifiers"`
	ByStatus         map[string]int64 `json:"by_status"`
}

type UpdateStatusRequest struct {
	Fingerprint string `json:"fingerprint" validate:"required"`
	Status      string `json:"status" validate:"required,oneof=active flagged reported"`
	Notes       string `json:"notes"`
}
