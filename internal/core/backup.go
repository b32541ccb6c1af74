package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"siteledger/pkg/domain"
)

// Bundle is a point-in-time snapshot of every resource document, keyed by
// resource name. It is the interchange format for backup and restore.
type Bundle map[string]json.RawMessage

// ExportBundle reads every resource and assembles a snapshot. Resources whose
// documents are absent contribute their default content, so a restored bundle
// always carries all keys.
func (s *Service) ExportBundle(ctx context.Context) (Bundle, error) {
	started := time.Now()
	if s.store == nil {
		err := fmt.Errorf("export: %w", domain.ErrResourceUnavailable{Resource: "", Reason: "no storage bound"})
		s.observe(ctx, "export_bundle", started, err)
		return nil, err
	}
	bundle := make(Bundle, len(domain.Resources()))
	for _, res := range domain.Resources() {
		data, found, err := s.store.Read(ctx, res)
		if err != nil {
			s.observe(ctx, "export_bundle", started, err)
			return nil, fmt.Errorf("export %s: %w", res, err)
		}
		if !found || len(data) == 0 {
			data = res.DefaultContent()
		}
		if !json.Valid(data) {
			s.logger.Warn("resource document is corrupt, exporting default",
				"resource", string(res))
			data = res.DefaultContent()
		}
		bundle[string(res)] = json.RawMessage(append([]byte(nil), data...))
	}
	s.observe(ctx, "export_bundle", started, nil)
	return bundle, nil
}

// RestoreResult reports which bundle keys were applied and which were skipped.
type RestoreResult struct {
	Restored []string `json:"restored"`
	Skipped  []string `json:"skipped"`
}

// RestoreBundle overwrites resource documents from the bundle. Unknown keys
// and payloads that are not valid JSON are skipped rather than failing the
// whole restore; every applied resource has its cache invalidated so the next
// read reflects the restored state.
func (s *Service) RestoreBundle(ctx context.Context, bundle Bundle) (RestoreResult, error) {
	started := time.Now()
	if s.store == nil {
		err := fmt.Errorf("restore: %w", domain.ErrResourceUnavailable{Resource: "", Reason: "no storage bound"})
		s.observe(ctx, "restore_bundle", started, err)
		return RestoreResult{}, err
	}
	var result RestoreResult
	keys := make([]string, 0, len(bundle))
	for k := range bundle {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		res := domain.Resource(k)
		if !domain.Known(res) {
			s.logger.Warn("bundle key is not a known resource, skipping", "key", k)
			result.Skipped = append(result.Skipped, k)
			continue
		}
		payload := bundle[k]
		if len(payload) == 0 || !json.Valid(payload) {
			s.logger.Warn("bundle payload is not valid JSON, skipping", "resource", k)
			result.Skipped = append(result.Skipped, k)
			continue
		}
		if err := s.store.Write(ctx, res, payload); err != nil {
			s.observe(ctx, "restore_bundle", started, err)
			return result, fmt.Errorf("restore %s: %w", res, err)
		}
		if c, ok := s.caches[res]; ok {
			c.Invalidate()
		}
		result.Restored = append(result.Restored, k)
	}
	s.observe(ctx, "restore_bundle", started, nil)
	return result, nil
}
