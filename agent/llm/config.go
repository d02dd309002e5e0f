package llm

import (
	"fmt"
	"strings"
	"time"

	contractx "github.com/naruebet/voiceline/agent/contract"
	openrouterx "github.com/naruebet/voiceline/pkg/openrouter"
)

// Config holds the shared model settings plus optional per-persona
// overrides. A negative temperature override means "use the default".
type Config struct {
	BaseURL            string        `envconfig:"BASE_URL" split_words:"true" default:"https://openrouter.ai/api/v1"`
	APIKey             string        `envconfig:"API_KEY" split_words:"true" required:"true"`
	Model              string        `envconfig:"MODEL" split_words:"true" required:"true"`
	MaxCompletionToken int           `envconfig:"MAX_COMPLETION_TOKEN" split_words:"true" default:"2000"`
	Temperature        float32       `envconfig:"TEMPERATURE" split_words:"true" default:"0.7"`
	Timeout            time.Duration `envconfig:"TIMEOUT" split_words:"true" default:"30s"`
	SiteURL            string        `envconfig:"SITE_URL" split_words:"true"`
	SiteName           string        `envconfig:"SITE_NAME" split_words:"true"`

	GameMasterModel       string  `envconfig:"GAMEMASTER_MODEL" split_words:"true"`
	FoodOrderModel        string  `envconfig:"FOODORDER_MODEL" split_words:"true"`
	SDRModel              string  `envconfig:"SDR_MODEL" split_words:"true"`
	GameMasterTemperature float32 `envconfig:"GAMEMASTER_TEMPERATURE" split_words:"true" default:"-1"`
	FoodOrderTemperature  float32 `envconfig:"FOODORDER_TEMPERATURE" split_words:"true" default:"-1"`
	SDRTemperature        float32 `envconfig:"SDR_TEMPERATURE" split_words:"true" default:"-1"`
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.APIKey) == "" {
		return fmt.Errorf("%w: openrouter api key is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(c.Model) == "" {
		return fmt.Errorf("%w: default model is required", contractx.ErrValidation)
	}
	return nil
}

// OpenRouterFor resolves the model settings for one persona.
func (c Config) OpenRouterFor(agentType contractx.AgentType) openrouterx.Config {
	modelName := strings.TrimSpace(c.Model)
	temp := c.Temperature

	switch agentType {
	case contractx.AgentTypeGameMaster:
		if v := strings.TrimSpace(c.GameMasterModel); v != "" {
			modelName = v
		}
		if c.GameMasterTemperature >= 0 {
			temp = c.GameMasterTemperature
		}
	case contractx.AgentTypeFoodOrder:
		if v := strings.TrimSpace(c.FoodOrderModel); v != "" {
			modelName = v
		}
		if c.FoodOrderTemperature >= 0 {
			temp = c.FoodOrderTemperature
		}
	case contractx.AgentTypeSDR:
		if v := strings.TrimSpace(c.SDRModel); v != "" {
			modelName = v
		}
		if c.SDRTemperature >= 0 {
			temp = c.SDRTemperature
		}
	}

	maxCompletionToken := c.MaxCompletionToken
	return openrouterx.Config{
		BaseURL:            strings.TrimSpace(c.BaseURL),
		APIKey:             strings.TrimSpace(c.APIKey),
		Model:              modelName,
		MaxCompletionToken: &maxCompletionToken,
		Temperature:        temp,
		Timeout:            c.Timeout,
		SiteURL:            strings.TrimSpace(c.SiteURL),
		SiteName:           strings.TrimSpace(c.SiteName),
	}
}
