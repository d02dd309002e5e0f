package main

import (
	"context"

	"github.com/rs/zerolog/log"

	contractx "github.com/naruebet/voiceline/agent/contract"
	llmx "github.com/naruebet/voiceline/agent/llm"
	persistx "github.com/naruebet/voiceline/agent/persist"
	runtimex "github.com/naruebet/voiceline/agent/runtime"
	configx "github.com/naruebet/voiceline/pkg/config"
	_ "github.com/naruebet/voiceline/pkg/logger/autoload"
	openrouterx "github.com/naruebet/voiceline/pkg/openrouter"
	qstashx "github.com/naruebet/voiceline/pkg/qstash"
)

type AppConfig struct {
	Agent           string `envconfig:"AGENT" default:"gamemaster"`
	DataDir         string `envconfig:"DATA_DIR" default:"data"`
	CatalogPath     string `envconfig:"CATALOG_PATH" default:"data/catalog.json"`
	CompanyDataPath string `envconfig:"COMPANY_DATA_PATH" default:"data/company_data.json"`
	Universe        string `envconfig:"UNIVERSE" default:"detective"`
	Tone            string `envconfig:"TONE" default:"dramatic"`
	Sink            string `envconfig:"SINK" default:"file"`
	LeadNotifyDest  string `envconfig:"LEAD_NOTIFY_DEST"`
}

func main() {
	ctx := context.Background()
	appCfg := configx.MustNew[AppConfig]("")

	agentType, ok := contractx.ParseAgentType(appCfg.Agent)
	if !ok {
		log.Fatal().Str("agent", appCfg.Agent).Msg("unknown agent type")
	}

	var sink contractx.Sink
	switch appCfg.Sink {
	case "postgres":
		pgCfg := configx.MustNew[persistx.PgConfig]("POSTGRES")
		pg, err := persistx.NewPgSink(*pgCfg)
		if err != nil {
			log.Fatal().Err(err).Msg("postgres sink init failed")
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal().Err(err).Msg("postgres schema init failed")
		}
		defer pg.Close()
		sink = pg
	default:
		sink = persistx.NewFileSink(appCfg.DataDir)
	}

	var notifier *qstashx.Client
	if agentType == contractx.AgentTypeSDR && appCfg.LeadNotifyDest != "" {
		qstashCfg := configx.MustNew[qstashx.Config]("QSTASH")
		notifier = qstashx.MustNew(*qstashCfg)
	}

	session, err := runtimex.New(runtimex.Config{
		Agent:           agentType,
		CatalogPath:     appCfg.CatalogPath,
		CompanyDataPath: appCfg.CompanyDataPath,
		Universe:        appCfg.Universe,
		Tone:            appCfg.Tone,
		NotifyDest:      appCfg.LeadNotifyDest,
	}, sink, notifier)
	if err != nil {
		log.Fatal().Err(err).Msg("session init failed")
	}

	llmCfg := configx.MustNew[llmx.Config]("OPENROUTER")
	if err := llmCfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("llm config invalid")
	}

	modelCfg := llmCfg.OpenRouterFor(agentType)
	if err := openrouterx.VerifyAccess(ctx, openrouterx.NewClient(modelCfg)); err != nil {
		log.Fatal().Err(err).Msg("openrouter access check failed")
	}

	chatModel, err := modelCfg.New(ctx)
	if err != nil {
		log.Fatal().Err(err).Msg("chat model init failed")
	}

	if _, err := chatModel.WithTools(session.ToolInfos()); err != nil {
		log.Fatal().Err(err).Msg("tool binding failed")
	}

	log.Info().
		Str("session_id", session.ID()).
		Str("agent", string(session.AgentType())).
		Msg("persona ready; hand the session to the voice runtime")
}
