package domain

import "sort"

// BestEngine is the reserved engine name that asks the gateway to pick the engine itself.
const BestEngine = "best"

// Descriptor is the immutable identity of a translation engine.
type Descriptor struct {
	Name              string `json:"name"`
	Version           string `json:"version"`
	SupportsDetection bool   `json:"supports_detection"`
	SupportsAlignment bool   `json:"supports_alignment"`
}

// NameVersion returns the human-readable "name (version)" label.
func (d Descriptor) NameVersion() string {
	return d.Name + " (" + d.Version + ")"
}

// LanguagePairs maps a source language to the set of target languages an engine can produce.
type LanguagePairs map[string]map[string]struct{}

// NewLanguagePairs builds a pair set from source -> targets lists.
func NewLanguagePairs(pairs map[string][]string) LanguagePairs {
	out := make(LanguagePairs, len(pairs))
	for from, targets := range pairs {
		set := make(map[string]struct{}, len(targets))
		for _, to := range targets {
			set[to] = struct{}{}
		}
		out[from] = set
	}
	return out
}

// AllToAll builds a pair set where every language translates into every other one.
func AllToAll(languages []string) LanguagePairs {
	pairs := make(map[string][]string, len(languages))
	for _, from := range languages {
		for _, to := range languages {
			if to != from {
				pairs[from] = append(pairs[from], to)
			}
		}
	}
	return NewLanguagePairs(pairs)
}

// Supports reports whether the pair can be translated. An empty source language
// means detection: any engine able to produce the target language qualifies.
func (p LanguagePairs) Supports(from, to string) bool {
	if from == "" {
		for _, targets := range p {
			if _, ok := targets[to]; ok {
				return true
			}
		}
		return false
	}

	targets, ok := p[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Sources returns the sorted source languages.
func (p LanguagePairs) Sources() []string {
	sources := make([]string, 0, len(p))
	for from := range p {
		sources = append(sources, from)
	}
	sort.Strings(sources)
	return sources
}

// Targets returns the sorted target languages for a source language.
func (p LanguagePairs) Targets(from string) []string {
	targets := make([]string, 0, len(p[from]))
	for to := range p[from] {
		targets = append(targets, to)
	}
	sort.Strings(targets)
	return targets
}

// ResolutionQuery holds the requirements an engine must meet to serve a request.
type ResolutionQuery struct {
	FromLanguage   string
	ToLanguage     string
	NeedsAlignment bool
	Exclude        []string
}

// NeedsDetection reports whether the source language has to be detected.
func (q ResolutionQuery) NeedsDetection() bool {
	return q.FromLanguage == ""
}

// Excludes reports whether the engine was excluded from this resolution.
func (q ResolutionQuery) Excludes(name string) bool {
	for _, excluded := range q.Exclude {
		if excluded == name {
			return true
		}
	}
	return false
}

// TranslationRequest is a caller-facing translation request.
type TranslationRequest struct {
	SourceText      string `json:"source_text"                validate:"required"`
	FromLanguage    string `json:"from_language,omitempty"    validate:"omitempty,len=2"`
	ToLanguage      string `json:"to_language"                validate:"required,len=2"`
	PreferredEngine string `json:"preferred_engine,omitempty"`
	WithAlignment   bool   `json:"with_alignment,omitempty"`
	Fallback        bool   `json:"fallback,omitempty"`
}

// Query returns the resolution requirements of the request.
func (r *TranslationRequest) Query(exclude []string) ResolutionQuery {
	return ResolutionQuery{
		FromLanguage:   r.FromLanguage,
		ToLanguage:     r.ToLanguage,
		NeedsAlignment: r.WithAlignment,
		Exclude:        exclude,
	}
}

// EngineRequest is what an engine receives.
type EngineRequest struct {
	SourceText    string
	FromLanguage  string
	ToLanguage    string
	WithAlignment bool
}

// TextSpan is a slice of text with inclusive character offsets.
type TextSpan struct {
	Start int    `json:"start"`
	End   int    `json:"end"`
	Text  string `json:"text"`
}

// AlignmentSection maps a span of the source text to a span of the translation.
type AlignmentSection struct {
	Src  TextSpan `json:"src"`
	Dest TextSpan `json:"dest"`
}

// TranslationResult is the outcome of a successful engine call.
type TranslationResult struct {
	Engine                     string             `json:"engine"`
	EngineVersion              string             `json:"engine_version"`
	DetectedLanguageConfidence *float64           `json:"detected_language_confidence"`
	FromLanguage               string             `json:"from_language"`
	ToLanguage                 string             `json:"to_language"`
	SourceText                 string             `json:"source_text"`
	TranslatedText             string             `json:"translated_text"`
	Alignment                  []AlignmentSection `json:"alignment"`
}

// Result sources reported on a TranslationResponse.
const (
	SourceEngine = "engine"
	SourceStore  = "store"
)

// TranslationResponse is the gateway's answer to a TranslationRequest.
type TranslationResponse struct {
	TranslationResult

	Source        string   `json:"source"`
	FailedEngines []string `json:"failed_engines,omitempty"`
}

// Fingerprint identifies a stored translation.
type Fingerprint struct {
	ToLanguage    string
	SourceText    string
	FromLanguage  string
	WithAlignment bool
	Engine        string
}

// FromWasSpecified reports whether the caller supplied the source language.
func (f Fingerprint) FromWasSpecified() bool {
	return f.FromLanguage != ""
}
