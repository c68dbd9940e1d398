package ops

import "context"

func (s *Service) ListProjects(ctx context.Context) CommandResponse {
	return s.call(ctx, "projects.list", nil)
}

func (s *Service) AddProject(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "projects.add", params{"path": path})
}

func (s *Service) RemoveProject(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "projects.remove", params{"path": path})
}

func (s *Service) ProjectStatus(ctx context.Context, path string) CommandResponse {
	return s.call(ctx, "projects.status", params{"path": path})
}

// InitProject scaffolds a new project; preset is optional.
func (s *Service) InitProject(ctx context.Context, path, preset string) CommandResponse {
	p := params{"path": path}
	if preset != "" {
		p["preset"] = preset
	}
	return s.call(ctx, "projects.init", p)
}
