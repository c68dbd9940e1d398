package ops

import "context"

func (s *Service) ListSecrets(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "secrets.list", params{"path": path})
}

func (s *Service) SyncSecrets(ctx context.Context, path, environment string) CommandResponse {
	p := params{"path": path}
	if environment != "" {
		p["environment"] = environment
	}
	return s.call(ctx, "secrets.sync", p)
}

func (s *Service) VerifySecrets(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "secrets.verify", params{"path": path})
}

func (s *Service) ExportSecrets(ctx context.Context, path, format string) CommandResponse {
	return s.call(ctx, "secrets.export", params{"path": path, "format": format})
}

func (s *Service) SecretProviders(ctx context.Context) CommandResponse {
	return s.call(ctx, "secrets.providers", nil)
}
