package core

import (
	"context"
	"time"

	"siteledger/pkg/domain"
)

// CreateClient persists a new client record.
func (s *Service) CreateClient(ctx context.Context, c domain.Client) (domain.Client, error) {
	started := time.Now()
	c.Base = s.newBase()
	_, err := s.clients.Mutate(ctx, func(cur []domain.Client) ([]domain.Client, error) {
		return append(cur, c), nil
	})
	s.observe(ctx, "create_client", started, err)
	if err != nil {
		return domain.Client{}, err
	}
	s.recordActivity(ctx, domain.ResourceClients, c.ID, domain.ActionCreate, "client created: "+c.Name, nil)
	return c, nil
}

// UpdateClient shallow-merges the patch onto the matching client.
func (s *Service) UpdateClient(ctx context.Context, id string, patch domain.ClientPatch) (domain.Client, bool, error) {
	started := time.Now()
	var updated domain.Client
	var found bool
	_, err := s.clients.Mutate(ctx, func(cur []domain.Client) ([]domain.Client, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_client", started, err)
	if err != nil {
		return domain.Client{}, false, err
	}
	if found {
		s.recordActivity(ctx, domain.ResourceClients, id, domain.ActionUpdate, "client updated: "+updated.Name, nil)
	}
	return updated, found, nil
}

// DeleteClient removes the client by id. Projects referencing the client keep
// their dangling clientId.
func (s *Service) DeleteClient(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.clients.Mutate(ctx, func(cur []domain.Client) ([]domain.Client, error) {
		next := cur[:0]
		for _, c := range cur {
			if c.ID == id {
				removed = true
				continue
			}
			next = append(next, c)
		}
		return next, nil
	})
	s.observe(ctx, "delete_client", started, err)
	if err != nil {
		return false, err
	}
	if removed {
		s.recordActivity(ctx, domain.ResourceClients, id, domain.ActionDelete, "client deleted", nil)
	}
	return removed, nil
}

// ListClients returns all clients.
func (s *Service) ListClients(ctx context.Context) ([]domain.Client, error) {
	return s.clients.Read(ctx)
}

// CreateWorker persists a new worker record, active by default.
func (s *Service) CreateWorker(ctx context.Context, w domain.Worker) (domain.Worker, error) {
	started := time.Now()
	w.Base = s.newBase()
	_, err := s.workers.Mutate(ctx, func(cur []domain.Worker) ([]domain.Worker, error) {
		return append(cur, w), nil
	})
	s.observe(ctx, "create_worker", started, err)
	if err != nil {
		return domain.Worker{}, err
	}
	s.recordActivity(ctx, domain.ResourceWorkers, w.ID, domain.ActionCreate, "worker created: "+w.Name, nil)
	return w, nil
}

// UpdateWorker shallow-merges the patch onto the matching worker. Rate changes
// never touch existing labor logs.
func (s *Service) UpdateWorker(ctx context.Context, id string, patch domain.WorkerPatch) (domain.Worker, bool, error) {
	started := time.Now()
	var updated domain.Worker
	var found bool
	_, err := s.workers.Mutate(ctx, func(cur []domain.Worker) ([]domain.Worker, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_worker", started, err)
	if err != nil {
		return domain.Worker{}, false, err
	}
	if found {
		s.recordActivity(ctx, domain.ResourceWorkers, id, domain.ActionUpdate, "worker updated: "+updated.Name, nil)
	}
	return updated, found, nil
}

// DeleteWorker removes the worker by id.
func (s *Service) DeleteWorker(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.workers.Mutate(ctx, func(cur []domain.Worker) ([]domain.Worker, error) {
		next := cur[:0]
		for _, w := range cur {
			if w.ID == id {
				removed = true
				continue
			}
			next = append(next, w)
		}
		return next, nil
	})
	s.observe(ctx, "delete_worker", started, err)
	if err != nil {
		return false, err
	}
	if removed {
		s.recordActivity(ctx, domain.ResourceWorkers, id, domain.ActionDelete, "worker deleted", nil)
	}
	return removed, nil
}

// ListWorkers returns all workers.
func (s *Service) ListWorkers(ctx context.Context) ([]domain.Worker, error) {
	return s.workers.Read(ctx)
}

// CreatePermissionUser persists a new user record. The storage layer does not
// gate any operation on roles; the records are plain data for the caller.
func (s *Service) CreatePermissionUser(ctx context.Context, u domain.PermissionUser) (domain.PermissionUser, error) {
	started := time.Now()
	u.Base = s.newBase()
	_, err := s.permissions.Mutate(ctx, func(cur []domain.PermissionUser) ([]domain.PermissionUser, error) {
		return append(cur, u), nil
	})
	s.observe(ctx, "create_permission_user", started, err)
	if err != nil {
		return domain.PermissionUser{}, err
	}
	s.recordActivity(ctx, domain.ResourcePermissions, u.ID, domain.ActionCreate, "user created: "+u.Username, nil)
	return u, nil
}

// UpdatePermissionUser shallow-merges the patch onto the matching user.
func (s *Service) UpdatePermissionUser(ctx context.Context, id string, patch domain.PermissionUserPatch) (domain.PermissionUser, bool, error) {
	started := time.Now()
	var updated domain.PermissionUser
	var found bool
	_, err := s.permissions.Mutate(ctx, func(cur []domain.PermissionUser) ([]domain.PermissionUser, error) {
		for i := range cur {
			if cur[i].ID == id {
				patch.Apply(&cur[i])
				updated = cur[i]
				found = true
				break
			}
		}
		return cur, nil
	})
	s.observe(ctx, "update_permission_user", started, err)
	return updated, found, err
}

// DeletePermissionUser removes the user by id.
func (s *Service) DeletePermissionUser(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.permissions.Mutate(ctx, func(cur []domain.PermissionUser) ([]domain.PermissionUser, error) {
		next := cur[:0]
		for _, u := range cur {
			if u.ID == id {
				removed = true
				continue
			}
			next = append(next, u)
		}
		return next, nil
	})
	s.observe(ctx, "delete_permission_user", started, err)
	return removed, err
}

// ListPermissionUsers returns all stored user records.
func (s *Service) ListPermissionUsers(ctx context.Context) ([]domain.PermissionUser, error) {
	return s.permissions.Read(ctx)
}
