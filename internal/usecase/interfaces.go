package usecase

import (
	"context"
	"time"

	"github.com/xavierca1/ligue-guest-sync/internal/entity"
)

// GuestExtractor lê do PMS as linhas alteradas desde `since` (nil = extração completa).
// No incremental, `emails` força a reextração desses emails mesmo sem mudança no PMS.
type GuestExtractor interface {
	Extract(ctx context.Context, since *time.Time, emails []string) ([]entity.RawGuestRow, error)
}

// CRMReader é o acesso de leitura ao CRM. Chaves de email chegam em minúsculas.
type CRMReader interface {
	FindIdentitiesByEmail(ctx context.Context, emails []string) (map[string][]entity.IdentityRecord, error)
	FindStaysByIdentity(ctx context.Context, identityIDs []string) (map[entity.StayKey]entity.TargetStayRecord, error)
}

// CRMWriter aplica o plano. Não existe UpdateIdentity: identidades são só criadas.
type CRMWriter interface {
	CreateIdentity(ctx context.Context, in entity.IdentityCreate) (string, error)
	CreateStay(ctx context.Context, stay entity.ProposedStayRecord) (string, error)
	UpdateStay(ctx context.Context, update entity.StayUpdate) error
}

type ReportPublisher interface {
	PublishRunReport(ctx context.Context, payload entity.RunReport) error
}

type ResolutionRepositoryInterface interface {
	ListResolutions(ctx context.Context) ([]entity.ConflictResolution, error)
}
