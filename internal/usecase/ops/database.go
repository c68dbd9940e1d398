package ops

import "context"

func (s *Service) DBStatus(ctx context.Context, path, environment string) CommandResponse {
	return s.call(ctx, "db.status", params{"path": path, "environment": environment})
}

func (s *Service) DBMigrate(ctx context.Context, path, environment string, dryRun bool) CommandResponse {
	return s.call(ctx, "db.migrate", params{"path": path, "environment": environment, "dry_run": dryRun})
}

func (s *Service) DBRollback(ctx context.Context, path, environment string, steps int) CommandResponse {
	return s.call(ctx, "db.rollback", params{"path": path, "environment": environment, "steps": steps})
}

func (s *Service) DBCreate(ctx context.Context, path, name string) CommandResponse {
	return s.call(ctx, "db.create", params{"path": path, "name": name})
}

func (s *Service) DBHistory(ctx context.Context, path, environment string) CommandResponse {
	return s.call(ctx, "db.history", params{"path": path, "environment": environment})
}

func (s *Service) DBTestConnection(ctx context.Context, path, environment string) CommandResponse {
	return s.call(ctx, "db.test_connection", params{"path": path, "environment": environment})
}
