package services

import (
	"github.com/insurebrain/policy-engine/internal/catalog"
	"github.com/insurebrain/policy-engine/internal/errors"
	"github.com/insurebrain/policy-engine/internal/logger"
	"github.com/insurebrain/policy-engine/pkg/config"
)

// catalogServiceImpl implements CatalogService
type catalogServiceImpl struct {
	cfg   *config.Config
	store *catalog.Store
	log   logger.Logger
}

// newCatalogService creates a new catalog service implementation
func newCatalogService(cfg *config.Config, store *catalog.Store, log logger.Logger) CatalogService {
	return &catalogServiceImpl{
		cfg:   cfg,
		store: store,
		log:   log,
	}
}

// Current returns the published catalog snapshot
func (s *catalogServiceImpl) Current() (*catalog.Snapshot, error) {
	return s.store.Current()
}

// Reload re-reads the catalog file and publishes the new snapshot. A failed
// load leaves the current snapshot untouched.
func (s *catalogServiceImpl) Reload() (*catalog.Snapshot, error) {
	if s.cfg.CatalogPath == "" {
		return nil, errors.CatalogUnavailable("no catalog file configured, running on the builtin catalog", nil)
	}

	snap, err := catalog.LoadSnapshot(s.cfg.CatalogPath)
	if err != nil {
		s.log.Error("catalog reload failed, keeping current snapshot", err,
			"path", s.cfg.CatalogPath)
		return nil, err
	}

	s.store.Publish(snap)
	s.log.Info("catalog snapshot published",
		"version", snap.Version,
		"policies", snap.Size())
	return snap, nil
}
