package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Configuration errors. They are fatal at startup.
var (
	ErrConfigNotFound       = errors.New("no language preferences file found")
	ErrConfigSyntax         = errors.New("invalid yaml syntax")
	ErrConfigMissingDefault = errors.New("language preferences must have an xx.xx (default) ordering")
	ErrConfigIncomplete     = errors.New("all engines must be included in the default ordering")
	ErrConfigUnknownEngine  = errors.New("language preferences reference an unknown engine")
)

// Availability errors.
var (
	ErrNoViableProvider = errors.New("no configured engine could carry out the request")
	ErrUnknownProvider  = errors.New("unknown engine")
)

// ErrCacheMiss is returned by a TranslationStore when nothing matches.
var ErrCacheMiss = errors.New("cache miss")

// UnknownProviderError is returned when a request names an engine that is not registered.
type UnknownProviderError struct {
	Name  string
	Known []string
}

func (e *UnknownProviderError) Error() string {
	return fmt.Sprintf("the engine %q is not supported, valid options are %s",
		e.Name, strings.Join(e.Known, ", "))
}

// Is makes errors.Is(err, ErrUnknownProvider) match.
func (e *UnknownProviderError) Is(target error) bool {
	return target == ErrUnknownProvider
}

// ProviderErrorKind classifies an engine failure.
type ProviderErrorKind string

// Provider error kinds.
const (
	NotConfigured           ProviderErrorKind = "not_configured"
	UnsupportedLanguagePair ProviderErrorKind = "unsupported_language_pair"
	DetectionNotSupported   ProviderErrorKind = "detection_not_supported"
	AlignmentNotSupported   ProviderErrorKind = "alignment_not_supported"
	APIError                ProviderErrorKind = "api_error"
	DetectionFailed         ProviderErrorKind = "detection_failed"
	AlignmentFailed         ProviderErrorKind = "alignment_failed"
	TranslationFailed       ProviderErrorKind = "translation_failed"
)

// ProviderError indicates an engine failure. Every ProviderError is eligible for fallback.
type ProviderError struct {
	Engine  string
	Kind    ProviderErrorKind
	Message string
	Cause   error
}

// NewProviderError creates a provider error.
func NewProviderError(engine string, kind ProviderErrorKind, message string, cause error) *ProviderError {
	return &ProviderError{
		Engine:  engine,
		Kind:    kind,
		Message: message,
		Cause:   cause,
	}
}

func (e *ProviderError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %s: %v", e.Engine, e.Kind, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s: %s", e.Engine, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// IsProviderError reports whether err carries a ProviderError and returns it.
func IsProviderError(err error) (*ProviderError, bool) {
	var providerErr *ProviderError
	if errors.As(err, &providerErr) {
		return providerErr, true
	}
	return nil, false
}

// IsProviderErrorKind reports whether err is a ProviderError of the given kind.
func IsProviderErrorKind(err error, kind ProviderErrorKind) bool {
	providerErr, ok := IsProviderError(err)
	return ok && providerErr.Kind == kind
}
