package config

import "os"

// AIConfig holds the Gemini settings used to generate round questions
type AIConfig struct {
	APIKey    string `json:"-"` // Never serialize
	BaseURL   string `json:"baseUrl"`
	Model     string `json:"model"`
	TimeoutMS int    `json:"timeoutMs"`
}

// DefaultAIConfig returns the AI configuration from the environment
func DefaultAIConfig() *AIConfig {
	return &AIConfig{
		APIKey:    os.Getenv("GEMINI_API_KEY"),
		BaseURL:   getEnvOrDefault("GEMINI_BASE_URL", "https://generativelanguage.googleapis.com/v1beta/models"),
		Model:     getEnvOrDefault("GEMINI_MODEL_QUESTIONS", "gemini-2.0-flash"),
		TimeoutMS: getEnvInt("GEMINI_TIMEOUT_MS", 4000),
	}
}

// IsEnabled returns true if the AI API is configured
func (c *AIConfig) IsEnabled() bool {
	return c.APIKey != ""
}

// ModelEndpoint returns the full endpoint for a given model
func (c *AIConfig) ModelEndpoint(model string) string {
	return c.BaseURL + "/" + model + ":generateContent"
}
