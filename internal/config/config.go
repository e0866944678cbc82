package config

import (
	"fmt"
	"os"
)

// Config carries the process-level settings read from the environment once at
// startup. Operator-editable settings (API key, PE firm list) live in the
// store instead, so they survive restarts and can be changed over the API.
type Config struct {
	Env           string
	ListenAddr    string
	DataDir       string
	LLMGatewayURL string
	LLMModel      string
	UseMockLLM    bool
}

func Load() Config {
	return Config{
		Env:           getenv("ENVIRONMENT", "local"),
		ListenAddr:    fmt.Sprintf(":%s", getenv("PORT", "8080")),
		DataDir:       getenv("DATA_DIR", "data"),
		LLMGatewayURL: os.Getenv("LLM_GATEWAY_URL"),
		LLMModel:      getenv("LLM_MODEL", "gemini-2.5-flash"),
		UseMockLLM:    os.Getenv("USE_MOCK_LLM") == "true",
	}
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
