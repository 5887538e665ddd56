package contract

import (
	"context"

	"safetalk-hive-be/internal/model"
)

type IFingerprintRepository interface {
	FindByID(ctx context.Context, fingerprint string) (*model.Scammer, error)
	FindByIdentifier(ctx context.Context, value string) (*model.Scammer, error)
	Save(ctx context.Context, scammer *model.Scammer) error
	AddIdentifiers(ctx context.Context, identifiers []model.ScammerIdentifier) error
	AddSession(ctx context.Context, session *model.ScammerSession) error
	ListByThreat(ctx context.Context, limit int) ([]model.Scammer, error)
	Stats(ctx context.Context) (total int64, identifiers int64, byStatus map[string]int64, err error)
	UpdateStatus(ctx context.Context, fingerprint, status, notes string) (bool, error)
}
