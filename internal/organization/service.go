package organization

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/org-admin/internal"
	organizationDatamodel "github.com/frahmantamala/org-admin/internal/core/datamodel/organization"
)

type RepositoryAPI interface {
	GetByDomain(ctx context.Context, domain string) (*organizationDatamodel.Organization, error)
}

// Service resolves tenants by domain for the login screen. It never writes.
type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

func (s *Service) GetByDomain(ctx context.Context, domain string) (*Organization, error) {
	domain = NormalizeDomain(domain)
	if domain == "" {
		return nil, internal.NewValidationFieldError("domain", "domain is required", internal.ErrCodeValidationFailed)
	}

	org, err := s.repo.GetByDomain(ctx, domain)
	if err != nil {
		s.logger.Error("failed to look up organization", "error", err, "domain", domain)
		return nil, internal.NewInternalError("failed to look up organization", err)
	}
	if org == nil {
		return nil, internal.NewNotFoundError("Organization not found", internal.ErrCodeOrganizationNotFound)
	}
	return FromDataModel(org), nil
}
