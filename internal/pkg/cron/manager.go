package cron

import (
	"Amem/internal/job"
	log "log/slog"

	"github.com/robfig/cron/v3"
)

const defaultCommentCountSpec = "0 */10 * * * *"

type Manager struct {
	engine           *cron.Cron
	commentCountJob  *job.CommentCountJob
	commentCountSpec string
}

func NewCronManager(commentCountJob *job.CommentCountJob, commentCountSpec string) *Manager {
	if commentCountSpec == "" {
		commentCountSpec = defaultCommentCountSpec
	}
	return &Manager{
		engine:           cron.New(cron.WithSeconds()),
		commentCountJob:  commentCountJob,
		commentCountSpec: commentCountSpec,
	}
}

// RegisterJobs 注册定时任务
func (s *Manager) RegisterJobs() error {
	if _, err := s.engine.AddJob(s.commentCountSpec, s.commentCountJob); err != nil {
		return err
	}
	return nil
}

func (s *Manager) Start() {
	log.Info("Cron 定时任务引擎启动")
	s.engine.Start()
}

func (s *Manager) Stop() {
	log.Info("Cron 定时任务引擎停止")
	<-s.engine.Stop().Done()
}
