package launcher

import (
	"errors"
	"fmt"
	log "log/slog"
)

var (
	ErrAppNotFound         = errors.New("app not found")
	ErrAllCandidatesFailed = errors.New("all launch targets failed")
)

// Starter starts a single launch target without waiting for it to exit.
// last is set for the final target of an app.
type Starter interface {
	Start(target string, last bool) error
}

type Resolver struct {
	catalog *Catalog
	starter Starter
}

func NewResolver(catalog *Catalog, starter Starter) *Resolver {
	return &Resolver{catalog: catalog, starter: starter}
}

// Open tries the targets for key in order and returns the first one that
// started. Later targets are not tried once one succeeds.
func (r *Resolver) Open(key string) (string, error) {
	candidates, ok := r.catalog.Candidates(key)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrAppNotFound, key)
	}

	var errs []error
	for i, c := range candidates {
		if err := r.starter.Start(c, i == len(candidates)-1); err != nil {
			log.Debug("Launch target failed", "app", key, "target", c, "err", err)
			errs = append(errs, fmt.Errorf("%s: %w", c, err))
			continue
		}

		log.Info("Launched", "app", key, "target", c)
		return c, nil
	}

	return "", fmt.Errorf("%w: %q: %w", ErrAllCandidatesFailed, key, errors.Join(errs...))
}
