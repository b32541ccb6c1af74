package core

import (
	"context"
	"fmt"
	"io"
	"time"

	"siteledger/internal/blob"
	"siteledger/pkg/domain"
)

// CreateProject persists a new project, assigning identity and creation time.
func (s *Service) CreateProject(ctx context.Context, p domain.Project) (domain.Project, error) {
	started := time.Now()
	p.Base = s.newBase()
	if p.Status == "" {
		p.Status = domain.ProjectActive
	}
	_, err := s.projects.Mutate(ctx, func(cur []domain.Project) ([]domain.Project, error) {
		return append(cur, p), nil
	})
	s.observe(ctx, "create_project", started, err)
	if err != nil {
		return domain.Project{}, err
	}
	s.recordActivity(ctx, domain.ResourceProjects, p.ID, domain.ActionCreate, "project created: "+p.Name, &p.ID)
	return p, nil
}

// UpdateProject shallow-merges the patch onto the matching project. An
// unknown id is a silent no-op reported through ok=false.
func (s *Service) UpdateProject(ctx context.Context, id string, patch domain.ProjectPatch) (domain.Project, bool, error) {
	started := time.Now()
	var updated domain.Project
	var found bool
	_, err := s.projects.Mutate(ctx, func(cur []domain.Project) ([]domain.Project, error) {
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
	s.observe(ctx, "update_project", started, err)
	if err != nil {
		return domain.Project{}, false, err
	}
	if found {
		s.recordActivity(ctx, domain.ResourceProjects, id, domain.ActionUpdate, "project updated: "+updated.Name, &id)
	}
	return updated, found, nil
}

// DeleteProject removes the project by id. Project-scoped records are not
// cascaded; they keep their dangling projectId.
func (s *Service) DeleteProject(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.projects.Mutate(ctx, func(cur []domain.Project) ([]domain.Project, error) {
		next := cur[:0]
		for _, p := range cur {
			if p.ID == id {
				removed = true
				continue
			}
			next = append(next, p)
		}
		return next, nil
	})
	s.observe(ctx, "delete_project", started, err)
	if err != nil {
		return false, err
	}
	if removed {
		s.recordActivity(ctx, domain.ResourceProjects, id, domain.ActionDelete, "project deleted", &id)
	}
	return removed, nil
}

// ListProjects returns all projects.
func (s *Service) ListProjects(ctx context.Context) ([]domain.Project, error) {
	return s.projects.Read(ctx)
}

// GetProject returns the project by id from the current list.
func (s *Service) GetProject(ctx context.Context, id string) (domain.Project, bool, error) {
	list, err := s.projects.Read(ctx)
	if err != nil {
		return domain.Project{}, false, err
	}
	for _, p := range list {
		if p.ID == id {
			return p, true, nil
		}
	}
	return domain.Project{}, false, nil
}

// CreateTask persists a new task. Assigning a worker at creation raises an
// advisory notification.
func (s *Service) CreateTask(ctx context.Context, t domain.Task) (domain.Task, error) {
	started := time.Now()
	t.Base = s.newBase()
	if t.Status == "" {
		t.Status = domain.TaskTodo
	}
	_, err := s.tasks.Mutate(ctx, func(cur []domain.Task) ([]domain.Task, error) {
		return append(cur, t), nil
	})
	s.observe(ctx, "create_task", started, err)
	if err != nil {
		return domain.Task{}, err
	}
	s.recordActivity(ctx, domain.ResourceTasks, t.ID, domain.ActionCreate, "task created: "+t.Title, &t.ProjectID)
	if t.WorkerID != nil {
		s.notify(ctx, &t.ProjectID, "task_assigned", "Task assigned", t.Title)
	}
	return t, nil
}

// UpdateTask shallow-merges the patch onto the matching task.
func (s *Service) UpdateTask(ctx context.Context, id string, patch domain.TaskPatch) (domain.Task, bool, error) {
	started := time.Now()
	var updated domain.Task
	var found bool
	_, err := s.tasks.Mutate(ctx, func(cur []domain.Task) ([]domain.Task, error) {
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
	s.observe(ctx, "update_task", started, err)
	if err != nil {
		return domain.Task{}, false, err
	}
	if found {
		s.recordActivity(ctx, domain.ResourceTasks, id, domain.ActionUpdate, "task updated: "+updated.Title, &updated.ProjectID)
	}
	return updated, found, nil
}

// DeleteTask removes the task by id.
func (s *Service) DeleteTask(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed domain.Task
	var ok bool
	_, err := s.tasks.Mutate(ctx, func(cur []domain.Task) ([]domain.Task, error) {
		next := cur[:0]
		for _, t := range cur {
			if t.ID == id {
				removed = t
				ok = true
				continue
			}
			next = append(next, t)
		}
		return next, nil
	})
	s.observe(ctx, "delete_task", started, err)
	if err != nil {
		return false, err
	}
	if ok {
		s.recordActivity(ctx, domain.ResourceTasks, id, domain.ActionDelete, "task deleted: "+removed.Title, &removed.ProjectID)
	}
	return ok, nil
}

// ListTasks returns all tasks, optionally filtered by project.
func (s *Service) ListTasks(ctx context.Context, projectID string) ([]domain.Task, error) {
	list, err := s.tasks.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.Task, 0, len(list))
	for _, t := range list {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	return out, nil
}

// CreateLocation pins a project location.
func (s *Service) CreateLocation(ctx context.Context, l domain.ProjectLocation) (domain.ProjectLocation, error) {
	started := time.Now()
	l.Base = s.newBase()
	_, err := s.locations.Mutate(ctx, func(cur []domain.ProjectLocation) ([]domain.ProjectLocation, error) {
		return append(cur, l), nil
	})
	s.observe(ctx, "create_location", started, err)
	if err != nil {
		return domain.ProjectLocation{}, err
	}
	s.recordActivity(ctx, domain.ResourceLocations, l.ID, domain.ActionCreate, "location added: "+l.Label, &l.ProjectID)
	return l, nil
}

// UpdateLocation shallow-merges the patch onto the matching location.
func (s *Service) UpdateLocation(ctx context.Context, id string, patch domain.LocationPatch) (domain.ProjectLocation, bool, error) {
	started := time.Now()
	var updated domain.ProjectLocation
	var found bool
	_, err := s.locations.Mutate(ctx, func(cur []domain.ProjectLocation) ([]domain.ProjectLocation, error) {
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
	s.observe(ctx, "update_location", started, err)
	return updated, found, err
}

// DeleteLocation removes the location by id.
func (s *Service) DeleteLocation(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.locations.Mutate(ctx, func(cur []domain.ProjectLocation) ([]domain.ProjectLocation, error) {
		next := cur[:0]
		for _, l := range cur {
			if l.ID == id {
				removed = true
				continue
			}
			next = append(next, l)
		}
		return next, nil
	})
	s.observe(ctx, "delete_location", started, err)
	return removed, err
}

// ListLocations returns all locations for a project (all projects when
// projectID is empty).
func (s *Service) ListLocations(ctx context.Context, projectID string) ([]domain.ProjectLocation, error) {
	list, err := s.locations.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.ProjectLocation, 0, len(list))
	for _, l := range list {
		if l.ProjectID == projectID {
			out = append(out, l)
		}
	}
	return out, nil
}

// UploadProjectFile stores the file bytes under the project's folder in the
// upload store and records its metadata. The metadata append is the primary
// mutation; the activity entry is advisory.
func (s *Service) UploadProjectFile(ctx context.Context, projectID, fileName, contentType string, r io.Reader) (domain.FileMeta, error) {
	started := time.Now()
	if s.uploads == nil {
		err := fmt.Errorf("no upload store configured")
		s.observe(ctx, "upload_project_file", started, err)
		return domain.FileMeta{}, err
	}
	key := projectID + "/" + fileName
	info, err := s.uploads.Put(ctx, key, r, blob.PutOptions{ContentType: contentType})
	if err != nil {
		s.observe(ctx, "upload_project_file", started, err)
		return domain.FileMeta{}, err
	}
	meta := domain.FileMeta{
		Base:        s.newBase(),
		ProjectID:   projectID,
		FileName:    fileName,
		Key:         info.Key,
		Size:        info.Size,
		ContentType: contentType,
	}
	_, err = s.filesMeta.Mutate(ctx, func(cur []domain.FileMeta) ([]domain.FileMeta, error) {
		return append(cur, meta), nil
	})
	s.observe(ctx, "upload_project_file", started, err)
	if err != nil {
		return domain.FileMeta{}, err
	}
	s.recordActivity(ctx, domain.ResourceFilesMeta, meta.ID, domain.ActionCreate, "file uploaded: "+fileName, &projectID)
	return meta, nil
}

// DeleteProjectFile removes the stored blob and its metadata entry.
func (s *Service) DeleteProjectFile(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed domain.FileMeta
	var ok bool
	_, err := s.filesMeta.Mutate(ctx, func(cur []domain.FileMeta) ([]domain.FileMeta, error) {
		next := cur[:0]
		for _, m := range cur {
			if m.ID == id {
				removed = m
				ok = true
				continue
			}
			next = append(next, m)
		}
		return next, nil
	})
	s.observe(ctx, "delete_project_file", started, err)
	if err != nil {
		return false, err
	}
	if ok && s.uploads != nil {
		if _, err := s.uploads.Delete(ctx, removed.Key); err != nil {
			s.logger.Warn("blob delete failed", "key", removed.Key, "error", err.Error())
		}
	}
	return ok, nil
}

// ListProjectFiles returns file metadata for a project (all when projectID is
// empty).
func (s *Service) ListProjectFiles(ctx context.Context, projectID string) ([]domain.FileMeta, error) {
	list, err := s.filesMeta.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.FileMeta, 0, len(list))
	for _, m := range list {
		if m.ProjectID == projectID {
			out = append(out, m)
		}
	}
	return out, nil
}
