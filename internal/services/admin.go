package services

import (
	"context"

	"go.uber.org/zap"
)

// AdminRepository wipes every table in one unit of work.
type AdminRepository interface {
	ClearAll(ctx context.Context) error
}

type AdminService struct {
	repo   AdminRepository
	logger *zap.Logger
}

func NewAdminService(repo AdminRepository, logger *zap.Logger) *AdminService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminService{repo: repo, logger: logger}
}

// ClearAll removes every user, match, participant, stat and event. Either
// all of them go or none does.
func (s *AdminService) ClearAll(ctx context.Context) error {
	if err := s.repo.ClearAll(ctx); err != nil {
		return err
	}
	s.logger.Warn("all data cleared")
	return nil
}
