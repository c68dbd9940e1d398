package ops

import "context"

// Doctor runs backend-side diagnostics; path scopes them to a project.
func (s *Service) Doctor(ctx context.Context, path string) CommandResponse {
	p := params{}
	if path != "" {
		p["path"] = path
	}
	return s.call(ctx, "system.doctor", p)
}

func (s *Service) SystemInfo(ctx context.Context) CommandResponse {
	return s.call(ctx, "system.info", nil)
}

func (s *Service) BackendVersion(ctx context.Context) CommandResponse {
	return s.call(ctx, "system.version", nil)
}

func (s *Service) ProviderStatus(ctx context.Context, provider string) CommandResponse {
	return s.call(ctx, "system.provider_status", params{"provider": provider})
}

func (s *Service) AllProviders(ctx context.Context) CommandResponse {
	return s.call(ctx, "system.all_providers", nil)
}

func (s *Service) CheckUpdates(ctx context.Context) CommandResponse {
	return s.call(ctx, "system.check_updates", nil)
}
