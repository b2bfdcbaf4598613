package echo

// Config contains echo engine configuration.
type Config struct {
	Enabled          bool     `env:"ECHO_ENABLED"           envDefault:"false"`
	DetectedLanguage string   `env:"ECHO_DETECTED_LANGUAGE" envDefault:"en"`
	Languages        []string `env:"ECHO_LANGUAGES"         envSeparator:"," envDefault:"en,es,fr,de,it,pt,ja,ko,zh"`
}
