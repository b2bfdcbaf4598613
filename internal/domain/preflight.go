package domain

import "fmt"

// Preflight checks that an engine can serve the request before it is invoked.
func Preflight(engine Engine, req *EngineRequest) error {
	desc := engine.Descriptor()

	if !engine.SupportedPairs().Supports(req.FromLanguage, req.ToLanguage) {
		return NewProviderError(desc.Name, UnsupportedLanguagePair,
			fmt.Sprintf("%s does not support translating %q to %q", desc.NameVersion(), req.FromLanguage, req.ToLanguage), nil)
	}

	if req.FromLanguage == "" && !desc.SupportsDetection {
		return NewProviderError(desc.Name, DetectionNotSupported,
			desc.NameVersion()+" does not support language detection", nil)
	}

	if req.WithAlignment && !desc.SupportsAlignment {
		return NewProviderError(desc.Name, AlignmentNotSupported,
			desc.NameVersion()+" does not support alignment", nil)
	}

	return nil
}
