package ops

import "context"

func (s *Service) DeployStatus(ctx context.Context, path, environment string) CommandResponse {
	return s.call(ctx, "deploy.status", params{"path": path, "environment": environment})
}

// Deploy rolls out to environment; service narrows the rollout when set.
func (s *Service) Deploy(ctx context.Context, path, environment, service string) CommandResponse {
	p := params{"path": path, "environment": environment}
	if service != "" {
		p["service"] = service
	}
	return s.call(ctx, "deploy.deploy", p)
}

func (s *Service) DeployRollback(ctx context.Context, path, environment, service string) CommandResponse {
	p := params{"path": path, "environment": environment}
	if service != "" {
		p["service"] = service
	}
	return s.call(ctx, "deploy.rollback", p)
}

func (s *Service) DeployLogs(ctx context.Context, path, environment, service string, lines int) CommandResponse {
	return s.call(ctx, "deploy.logs", params{
		"path":        path,
		"environment": environment,
		"service":     service,
		"lines":       lines,
	})
}

func (s *Service) SSHCommand(ctx context.Context, path, environment string) CommandResponse {
	return s.call(ctx, "deploy.ssh_command", params{"path": path, "environment": environment})
}
