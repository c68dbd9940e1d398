package ops

import "context"

func (s *Service) InfraStatus(ctx context.Context) CommandResponse {
	return s.call(ctx, "infra.status", nil)
}

func (s *Service) InfraStart(ctx context.Context) CommandResponse {
	return s.call(ctx, "infra.start", nil)
}

func (s *Service) InfraStop(ctx context.Context) CommandResponse {
	return s.call(ctx, "infra.stop", nil)
}

func (s *Service) InfraConfigure(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "infra.configure", params{"path": path})
}

func (s *Service) InfraUnconfigure(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "infra.unconfigure", params{"path": path})
}

func (s *Service) RegenerateCerts(ctx context.Context) CommandResponse {
	return s.call(ctx, "infra.regenerate_certs", nil)
}

// ManageHosts performs a hosts-file action ("add", "remove", "check").
func (s *Service) ManageHosts(ctx context.Context, action string) CommandResponse {
	return s.call(ctx, "infra.hosts", params{"action": action})
}
