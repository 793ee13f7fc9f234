package postgres

import (
	"context"
	"errors"

	organizationDatamodel "github.com/frahmantamala/org-admin/internal/core/datamodel/organization"
	"github.com/frahmantamala/org-admin/internal/organization"
	"gorm.io/gorm"
)

type OrganizationRepository struct {
	db *gorm.DB
}

func NewOrganizationRepository(db *gorm.DB) organization.RepositoryAPI {
	return &OrganizationRepository{db: db}
}

// GetByDomain returns nil, nil when no organization owns the domain.
func (r *OrganizationRepository) GetByDomain(ctx context.Context, domain string) (*organizationDatamodel.Organization, error) {
	var org organizationDatamodel.Organization
	err := r.db.WithContext(ctx).Where("domain = ?", domain).First(&org).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &org, nil
}
