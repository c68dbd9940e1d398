package ops

import "context"

func (s *Service) GetGlobalConfig(ctx context.Context) CommandResponse {
	return s.call(ctx, "config.get_global", nil)
}

func (s *Service) GetProjectConfig(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "config.get_project", params{"path": path})
}

func (s *Service) SetGlobalConfig(ctx context.Context, key string, value any) CommandResponse {
	return s.call(ctx, "config.set_global", params{"key": key, "value": value})
}

func (s *Service) SetProjectConfig(ctx context.Context, path string, config any) CommandResponse {
	return s.call(ctx, "config.set_project", params{"path": path, "config": config})
}

// ValidateConfig validates the project at path, or the global config when
// path is empty.
func (s *Service) ValidateConfig(ctx context.Context, path string) CommandResponse {
	p := params{}
	if path != "" {
		p["path"] = path
	}
	return s.call(ctx, "config.validate", p)
}
