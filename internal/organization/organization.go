package organization

import (
	"strings"
	"time"

	organizationDatamodel "github.com/frahmantamala/org-admin/internal/core/datamodel/organization"
)

type Organization struct {
	ID        int64          `json:"id"`
	Name      string         `json:"name"`
	Domain    string         `json:"domain"`
	Metadata  map[string]any `json:"metadata,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

func FromDataModel(o *organizationDatamodel.Organization) *Organization {
	return &Organization{
		ID:        o.ID,
		Name:      o.Name,
		Domain:    o.Domain,
		Metadata:  o.Metadata,
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

// NormalizeDomain lower-cases the domain and strips a trailing dot.
func NormalizeDomain(domain string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(domain)), ".")
}
