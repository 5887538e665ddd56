package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"safetalk-hive-be/internal/dto"
	"safetalk-hive-be/internal/model"
	"safetalk-hive-be/internal/pkg/logger"
	"safetalk-hive-be/internal/repository/contract"
	"safetalk-hive-be/pkg/store"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// IFingerprintService profiles scammers across engagements. The same UPI
// handle or phone number showing up in a new chat cross-references the
// existing profile instead of creating a fresh one.
type IFingerprintService interface {
	Record(ctx context.Context, chatID, scamType string, messageCount int, record *store.IntelRecord) error
	Lookup(ctx context.Context, identifier string) (*dto.FingerprintLookupResponse, error)
	ListAll(ctx context.Context, limit int) ([]dto.ScammerProfileResponse, error)
	Stats(ctx context.Context) (*dto.FingerprintStatsResponse, error)
	UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest) (bool, error)
}

type fingerprintService struct {
	repo   contract.IFingerprintRepository
	logger logger.ILogger
}

func NewFingerprintService(repo contract.IFingerprintRepository, log logger.ILogger) IFingerprintService {
	return &fingerprintService{repo: repo, logger: log}
}

// Fingerprint is deterministic over the identifier set: sorted, lower-cased,
// joined and hashed, first 16 hex chars. The same identifiers always map to
// the same profile.
func Fingerprint(identifiers []string) string {
	seen := make(map[string]bool, len(identifiers))
	normalized := make([]string, 0, len(identifiers))
	for _, v := range identifiers {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		normalized = append(normalized, v)
	}
	sort.Strings(normalized)

	sum := sha256.Sum256([]byte(strings.Join(normalized, "|")))
	return hex.EncodeToString(sum[:])[:16]
}

func (s *fingerprintService) Record(ctx context.Context, chatID, scamType string, messageCount int, record *store.IntelRecord) error {
	identifiers := record.Identifiers()
	if len(identifiers) == 0 {
		// Keywords alone don't identify anyone.
		return nil
	}

	fingerprint := Fingerprint(identifiers)
	now := time.Now()

	scammer, err := s.repo.FindByID(ctx, fingerprint)
	if err != nil {
		return fmt.Errorf("lookup fingerprint: %w", err)
	}

	if scammer == nil {
		scamTypes, _ := json.Marshal([]string{scamType})
		scammer = &model.Scammer{
			ID:             fingerprint,
			FirstSeen:      now,
			LastSeen:       now,
			EncounterCount: 1,
			ScamTypes:      datatypes.JSON(scamTypes),
			Status:         model.ScammerStatusActive,
		}
	} else {
		scammer.LastSeen = now
		scammer.EncounterCount++
		scammer.ScamTypes = mergeScamTypes(scammer.ScamTypes, scamType)
	}
	scammer.ThreatScore = threatScore(len(identifiers), scammer.EncounterCount)

	if err := s.repo.Save(ctx, scammer); err != nil {
		return fmt.Errorf("save profile: %w", err)
	}

	rows := identifierRows(fingerprint, chatID, record, now)
	if err := s.repo.AddIdentifiers(ctx, rows); err != nil {
		return fmt.Errorf("save identifiers: %w", err)
	}

	snapshot, _ := json.Marshal(record)
	err = s.repo.AddSession(ctx, &model.ScammerSession{
		ID:            uuid.New(),
		ScammerID:     fingerprint,
		ChatID:        chatID,
		ScamType:      scamType,
		StartedAt:     now,
		MessageCount:  messageCount,
		IntelSnapshot: datatypes.JSON(snapshot),
	})
	if err != nil {
		return fmt.Errorf("save session snapshot: %w", err)
	}

	s.logger.Info("Fingerprint", "Profile updated", map[string]interface{}{
		"fingerprint": fingerprint, "chat_id": chatID, "identifiers": len(identifiers),
	})
	return nil
}

func (s *fingerprintService) Lookup(ctx context.Context, identifier string) (*dto.FingerprintLookupResponse, error) {
	scammer, err := s.repo.FindByIdentifier(ctx, identifier)
	if err != nil {
		return nil, err
	}
	if scammer == nil {
		return &dto.FingerprintLookupResponse{Found: false}, nil
	}
	profile := toProfileResponse(scammer)
	return &dto.FingerprintLookupResponse{Found: true, Scammer: &profile}, nil
}

func (s *fingerprintService) ListAll(ctx context.Context, limit int) ([]dto.ScammerProfileResponse, error) {
	if limit <= 0 {
		limit = 50
	}
	scammers, err := s.repo.ListByThreat(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]dto.ScammerProfileResponse, len(scammers))
	for i := range scammers {
		out[i] = toProfileResponse(&scammers[i])
	}
	return out, nil
}

func (s *fingerprintService) Stats(ctx context.Context) (*dto.FingerprintStatsResponse, error) {
	total, identifiers, byStatus, err := s.repo.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.FingerprintStatsResponse{
		TotalScammers:    total,
		TotalIdentifiers: identifiers,
		ByStatus:         byStatus,
	}, nil
}

func (s *fingerprintService) UpdateStatus(ctx context.Context, req *dto.UpdateStatusRequest) (bool, error) {
	return s.repo.UpdateStatus(ctx, req.Fingerprint, req.Status, req.Notes)
}

func identifierRows(fingerprint, chatID string, record *store.IntelRecord, now time.Time) []model.ScammerIdentifier {
	var rows []model.ScammerIdentifier
	add := func(idType string, values []string) {
		for _, v := range values {
			rows = append(rows, model.ScammerIdentifier{
				ScammerID: fingerprint,
				Type:      idType,
				Value:     strings.ToLower(strings.TrimSpace(v)),
				FirstSeen: now,
			})
		}
	}
	add(model.IdentifierTypeUPI, record.UPIIDs)
	add(model.IdentifierTypePhone, record.PhoneNumbers)
	add(model.IdentifierTypeLink, record.PhishingLinks)
	if chatID != "" {
		add(model.IdentifierTypeChatID, []string{chatID})
	}
	return rows
}

func mergeScamTypes(existing datatypes.JSON, scamType string) datatypes.JSON {
	var types []string
	_ = json.Unmarshal(existing, &types)
	for _, t := range types {
		if t == scamType {
			return existing
		}
	}
	types = append(types, scamType)
	merged, _ := json.Marshal(types)
	return datatypes.JSON(merged)
}

func threatScore(identifierCount, encounterCount int) float64 {
	score := float64(identifierCount) + 2*float64(encounterCount)
	if score > 10 {
		return 10
	}
	return score
}

func toProfileResponse(scammer *model.Scammer) dto.ScammerProfileResponse {
	var scamTypes []string
	_ = json.Unmarshal(scammer.ScamTypes, &scamTypes)

	identifiers := make([]dto.IdentifierResponse, len(scammer.Identifiers))
	for i, ident := range scammer.Identifiers {
		identifiers[i] = dto.IdentifierResponse{
			Type:      ident.Type,
			Value:     ident.Value,
			FirstSeen: ident.FirstSeen,
		}
	}

	return dto.ScammerProfileResponse{
		Fingerprint:    scammer.ID,
		FirstSeen:      scammer.FirstSeen,
		LastSeen:       scammer.LastSeen,
		EncounterCount: scammer.EncounterCount,
		ScamTypes:      scamTypes,
		ThreatScore:    scammer.ThreatScore,
		Status:         scammer.Status,
		Notes:          scammer.Notes,
		Identifiers:    identifiers,
	}
}
