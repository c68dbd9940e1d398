package ops

import "context"

func (s *Service) PlatformInfo(ctx context.Context) CommandResponse {
	return s.call(ctx, "setup.get_platform_info", nil)
}

func (s *Service) DetectAllTools(ctx context.Context) CommandResponse {
	return s.call(ctx, "setup.detect_all_tools", nil)
}

func (s *Service) DetectTool(ctx context.Context, name string) CommandResponse {
	return s.call(ctx, "setup.detect_tool", params{"name": name})
}

// InstallTool installs a prerequisite; method picks the package manager when
// the platform offers more than one.
func (s *Service) InstallTool(ctx context.Context, name, method string) CommandResponse {
	p := params{"name": name}
	if method != "" {
		p["method"] = method
	}
	return s.call(ctx, "setup.install", p)
}

func (s *Service) PrerequisitesSummary(ctx context.Context) CommandResponse {
	return s.call(ctx, "setup.get_prerequisites_summary", nil)
}
