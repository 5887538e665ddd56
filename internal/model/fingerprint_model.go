package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Scammer status values.
const (
	ScammerStatusActive   = "active"
	ScammerStatusFlagged  = "flagged"
	ScammerStatusReported = "reported"
)

// Scammer is one fingerprinted scammer profile. The primary key is the
// deterministic fingerprint derived from the identifier set.
type Scammer struct {
	ID             string         `gorm:"primaryKey;size:16" json:"fingerprint"`
	FirstSeen      time.Time      `json:"first_seen"`
	LastSeen       time.Time      `json:"last_seen"`
	EncounterCount int            `gorm:"default:1" json:"encounter_count"`
	ScamTypes      datatypes.JSON `json:"scam_types"`
	ThreatScore    float64        `gorm:"default:0" json:"threat_score"`
	Status         string         `gorm:"default:active" json:"status"`
	Notes          string         `json:"notes"`

	Identifiers []ScammerIdentifier `gorm:"foreignKey:ScammerID" json:"identifiers"`
}

// ScammerIdentifier is a single identifier (phone, UPI handle, link, chat
// id) tied to a profile. Each (type, value) pair is globally unique so a
// reused identifier always cross-references the same scammer.
type ScammerIdentifier struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	ScammerID string    `gorm:"index;size:16" json:"scammer_id"`
	Type      string    `gorm:"uniqueIndex:idx_identifier_type_value" json:"type"`
	Value     string    `gorm:"uniqueIndex:idx_identifier_type_value" json:"value"`
	FirstSeen time.Time `json:"first_seen"`
}

// ScammerSession records the intel snapshot of one engagement against a
// profile, for later investigation.
type ScammerSession struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	ScammerID     string         `gorm:"index;size:16" json:"scammer_id"`
	ChatID        string         `json:"chat_id"`
	ScamType      string         `json:"scam_type"`
	StartedAt     time.Time      `json:"started_at"`
	MessageCount  int            `json:"message_count"`
	IntelSnapshot datatypes.JSON `json:"intel_snapshot"`
}

// Identifier types.
const (
	IdentifierTypePhone  = "phone"
	IdentifierTypeUPI    = "upi"
	IdentifierTypeLink   = "link"
	IdentifierTypeChatID = "chat_id"
)
