package core

import (
	"context"
	"time"

	"siteledger/pkg/domain"
)

// CreateDailyReport persists an end-of-day site summary.
func (s *Service) CreateDailyReport(ctx context.Context, r domain.DailyReport) (domain.DailyReport, error) {
	started := time.Now()
	r.Base = s.newBase()
	_, err := s.dailyReports.Mutate(ctx, func(cur []domain.DailyReport) ([]domain.DailyReport, error) {
		return append(cur, r), nil
	})
	s.observe(ctx, "create_daily_report", started, err)
	if err != nil {
		return domain.DailyReport{}, err
	}
	s.recordActivity(ctx, domain.ResourceDailyReports, r.ID, domain.ActionCreate, "daily report filed", &r.ProjectID)
	return r, nil
}

// UpdateDailyReport shallow-merges the patch onto the matching report.
func (s *Service) UpdateDailyReport(ctx context.Context, id string, patch domain.DailyReportPatch) (domain.DailyReport, bool, error) {
	started := time.Now()
	var updated domain.DailyReport
	var found bool
	_, err := s.dailyReports.Mutate(ctx, func(cur []domain.DailyReport) ([]domain.DailyReport, error) {
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
	s.observe(ctx, "update_daily_report", started, err)
	return updated, found, err
}

// DeleteDailyReport removes the report by id.
func (s *Service) DeleteDailyReport(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.dailyReports.Mutate(ctx, func(cur []domain.DailyReport) ([]domain.DailyReport, error) {
		next := cur[:0]
		for _, r := range cur {
			if r.ID == id {
				removed = true
				continue
			}
			next = append(next, r)
		}
		return next, nil
	})
	s.observe(ctx, "delete_daily_report", started, err)
	return removed, err
}

// ListDailyReports returns reports, optionally filtered by project.
func (s *Service) ListDailyReports(ctx context.Context, projectID string) ([]domain.DailyReport, error) {
	list, err := s.dailyReports.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.DailyReport, 0, len(list))
	for _, r := range list {
		if r.ProjectID == projectID {
			out = append(out, r)
		}
	}
	return out, nil
}

// ListNotifications returns the notification feed.
func (s *Service) ListNotifications(ctx context.Context) ([]domain.Notification, error) {
	return s.notifications.Read(ctx)
}

// MarkNotificationRead flips the read flag on one notification.
func (s *Service) MarkNotificationRead(ctx context.Context, id string, read bool) (domain.Notification, bool, error) {
	started := time.Now()
	var updated domain.Notification
	var found bool
	patch := domain.NotificationPatch{Read: &read}
	_, err := s.notifications.Mutate(ctx, func(cur []domain.Notification) ([]domain.Notification, error) {
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
	s.observe(ctx, "mark_notification_read", started, err)
	return updated, found, err
}

// DeleteNotification removes one notification from the feed.
func (s *Service) DeleteNotification(ctx context.Context, id string) (bool, error) {
	started := time.Now()
	var removed bool
	_, err := s.notifications.Mutate(ctx, func(cur []domain.Notification) ([]domain.Notification, error) {
		next := cur[:0]
		for _, n := range cur {
			if n.ID == id {
				removed = true
				continue
			}
			next = append(next, n)
		}
		return next, nil
	})
	s.observe(ctx, "delete_notification", started, err)
	return removed, err
}

// ListActivity returns the append-only activity log, optionally filtered by
// project.
func (s *Service) ListActivity(ctx context.Context, projectID string) ([]domain.ActivityEvent, error) {
	list, err := s.activity.Read(ctx)
	if err != nil || projectID == "" {
		return list, err
	}
	out := make([]domain.ActivityEvent, 0, len(list))
	for _, ev := range list {
		if ev.ProjectID != nil && *ev.ProjectID == projectID {
			out = append(out, ev)
		}
	}
	return out, nil
}

// Settings returns the current settings document, zero-valued when absent.
func (s *Service) Settings(ctx context.Context) (domain.Settings, error) {
	return s.settings.Read(ctx)
}

// UpdateSettings shallow-merges the patch onto the stored settings object.
func (s *Service) UpdateSettings(ctx context.Context, patch domain.SettingsPatch) (domain.Settings, error) {
	started := time.Now()
	next, err := s.settings.Mutate(ctx, func(cur domain.Settings) (domain.Settings, error) {
		patch.Apply(&cur)
		return cur, nil
	})
	s.observe(ctx, "update_settings", started, err)
	if err != nil {
		return domain.Settings{}, err
	}
	s.recordActivity(ctx, domain.ResourceSettings, "", domain.ActionUpdate, "settings updated", nil)
	return next, nil
}
