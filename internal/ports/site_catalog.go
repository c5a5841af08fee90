package ports

import "transport-report-service/internal/domain"

// Port: the declarative table of configured sites.
type SiteCatalog interface {
	All() []domain.Site
	// Return the site for key or an error wrapping domain.ErrUnknownSite.
	Get(key string) (domain.Site, error)
}
