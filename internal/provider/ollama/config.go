package ollama

// Config contains configuration for an OpenAI-compatible local model server such as Ollama.
// The engine stays unconfigured while BaseURL is empty.
type Config struct {
	BaseURL   string   `env:"OLLAMA_BASE_URL"`
	APIKey    string   `env:"OLLAMA_API_KEY"   envDefault:"ollama"`
	Model     string   `env:"OLLAMA_MODEL"     envDefault:"llama3.1"`
	Languages []string `env:"OLLAMA_LANGUAGES" envSeparator:","`
}
