package cron

import log "log/slog"

func InitCron(mgr *Manager) error {
	log.Info("Cron Jobs starting...", "comment_count_spec", mgr.commentCountSpec)
	if err := mgr.RegisterJobs(); err != nil {
		return err
	}
	mgr.Start()
	return nil
}
