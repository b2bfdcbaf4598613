// Package prompt builds the translation prompt shared by the LLM-backed engines
// and parses their JSON answers into translation results.
package prompt

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/davidbz/polyglot/internal/domain"
)

// LanguageNames maps ISO-639-1 codes to human-readable names for prompts.
//
//nolint:gochecknoglobals // lookup table
var LanguageNames = map[string]string{
	"ar": "Arabic",
	"cs": "Czech",
	"da": "Danish",
	"de": "German",
	"el": "Greek",
	"en": "English",
	"es": "Spanish",
	"fi": "Finnish",
	"fr": "French",
	"he": "Hebrew",
	"hi": "Hindi",
	"hu": "Hungarian",
	"id": "Indonesian",
	"it": "Italian",
	"ja": "Japanese",
	"ko": "Korean",
	"nl": "Dutch",
	"no": "Norwegian",
	"pl": "Polish",
	"pt": "Portuguese",
	"ro": "Romanian",
	"ru": "Russian",
	"sv": "Swedish",
	"th": "Thai",
	"tr": "Turkish",
	"uk": "Ukrainian",
	"vi": "Vietnamese",
	"zh": "Chinese",
}

// DefaultLanguages is the language list LLM engines translate between unless configured otherwise.
//
//nolint:gochecknoglobals // default configuration
var DefaultLanguages = []string{
	"ar", "de", "en", "es", "fr", "hi", "it", "ja", "ko", "nl", "pl", "pt", "ru", "tr", "uk", "zh",
}

// LanguageName returns the display name of a language code, or the code itself.
func LanguageName(code string) string {
	if name, ok := LanguageNames[code]; ok {
		return name
	}
	return code
}

// System returns the system prompt for a translation request.
func System(req *domain.EngineRequest) string {
	var b strings.Builder

	b.WriteString("# Role\nYou are a professional translation engine. ")
	fmt.Fprintf(&b, "Translate the user's text into %s (%s).", LanguageName(req.ToLanguage), req.ToLanguage)

	if req.FromLanguage != "" {
		fmt.Fprintf(&b, " The source language is %s (%s).", LanguageName(req.FromLanguage), req.FromLanguage)
	} else {
		b.WriteString(" Detect the source language first.")
	}

	b.WriteString("\n\n# Output\nRespond with a single JSON object and nothing else:\n")
	b.WriteString(`{"translated_text": "<translation>"`)
	if req.FromLanguage == "" {
		b.WriteString(`, "detected_language": "<ISO-639-1 code>", "confidence": <number between 0 and 1>`)
	}
	b.WriteString("}\n\nPreserve whitespace, punctuation and placeholders. Do not add explanations.")

	return b.String()
}

// User returns the user message for a translation request.
func User(req *domain.EngineRequest) string {
	return req.SourceText
}

type answer struct {
	TranslatedText   string   `json:"translated_text"`
	DetectedLanguage string   `json:"detected_language"`
	Confidence       *float64 `json:"confidence"`
}

// Parse converts a raw model answer into a translation result.
func Parse(desc domain.Descriptor, req *domain.EngineRequest, raw string) (*domain.TranslationResult, error) {
	var parsed answer
	if err := json.Unmarshal([]byte(stripFences(raw)), &parsed); err != nil {
		return nil, domain.NewProviderError(desc.Name, domain.TranslationFailed,
			"model answer is not valid JSON", err)
	}

	if strings.TrimSpace(parsed.TranslatedText) == "" {
		return nil, domain.NewProviderError(desc.Name, domain.TranslationFailed,
			"model answer has no translation", nil)
	}

	result := &domain.TranslationResult{
		Engine:         desc.Name,
		EngineVersion:  desc.Version,
		FromLanguage:   req.FromLanguage,
		ToLanguage:     req.ToLanguage,
		SourceText:     req.SourceText,
		TranslatedText: parsed.TranslatedText,
	}

	if req.FromLanguage == "" {
		detected := strings.ToLower(strings.TrimSpace(parsed.DetectedLanguage))
		if len(detected) != 2 {
			return nil, domain.NewProviderError(desc.Name, domain.DetectionFailed,
				fmt.Sprintf("model reported invalid language %q", parsed.DetectedLanguage), nil)
		}
		result.FromLanguage = detected
		result.DetectedLanguageConfidence = clampConfidence(parsed.Confidence)
	}

	return result, nil
}

func clampConfidence(c *float64) *float64 {
	if c == nil {
		return nil
	}
	v := min(max(*c, 0), 1)
	return &v
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
