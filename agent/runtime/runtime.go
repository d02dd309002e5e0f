package runtime

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/google/uuid"

	catalogx "github.com/naruebet/voiceline/agent/catalog"
	contractx "github.com/naruebet/voiceline/agent/contract"
	foodorderx "github.com/naruebet/voiceline/agent/foodorder"
	leadx "github.com/naruebet/voiceline/agent/lead"
	promptx "github.com/naruebet/voiceline/agent/prompt"
	storyx "github.com/naruebet/voiceline/agent/story"
	toolx "github.com/naruebet/voiceline/agent/tool"
	logx "github.com/naruebet/voiceline/pkg/logger"
	qstashx "github.com/naruebet/voiceline/pkg/qstash"
)

// Config selects and parameterizes one persona session.
type Config struct {
	Agent           contractx.AgentType
	CatalogPath     string // foodorder
	CompanyDataPath string // sdr
	Universe        string // gamemaster
	Tone            string // gamemaster
	NotifyDest      string // sdr lead handoff, optional
}

// Session is one live persona conversation: a system prompt, the tool
// surface exposed to the dialogue policy, and the executor bound to the
// session's own state. It is the only ToolGateway implementation.
type Session struct {
	id        string
	agentType contractx.AgentType
	prompt    string
	infos     []*schema.ToolInfo
	exec      toolx.Executor
}

var _ contractx.ToolGateway = (*Session)(nil)

// New builds a persona session. The sink receives finalized records; the
// notifier is only used by the SDR persona and may be nil.
func New(cfg Config, sink contractx.Sink, notifier *qstashx.Client) (*Session, error) {
	if sink == nil {
		return nil, fmt.Errorf("%w: sink is required", contractx.ErrValidation)
	}

	prompts := promptx.LoadPromptSet()
	sess := &Session{
		id:        uuid.NewString(),
		agentType: cfg.Agent,
	}

	switch cfg.Agent {
	case contractx.AgentTypeFoodOrder:
		cat, err := catalogx.Load(cfg.CatalogPath)
		if err != nil {
			// A missing catalog is fatal to session start.
			logx.For("runtime").Error().Err(err).Msg("catalog load failed")
			return nil, err
		}
		sess.prompt = prompts.FoodOrder
		sess.infos = foodorderx.ToolInfos()
		sess.exec = foodorderx.NewExecutor(foodorderx.NewOrderSession(), cat, sink, time.Now)

	case contractx.AgentTypeSDR:
		company := catalogx.LoadCompanyData(cfg.CompanyDataPath)
		sess.prompt = prompts.SDR
		sess.infos = leadx.ToolInfos()
		sess.exec = leadx.NewExecutor(leadx.NewLeadSession(), company, sink, notifier, cfg.NotifyDest, time.Now)

	case contractx.AgentTypeGameMaster:
		game := storyx.NewGameSession(cfg.Universe, cfg.Tone)
		sess.prompt = promptx.RenderGameMaster(
			prompts.GameMaster,
			game.Universe,
			game.Tone,
			game.World.Setting,
			game.World.ToneDesc,
			game.World.StartingLocation,
		)
		sess.infos = storyx.ToolInfos(game.IsDetective())
		sess.exec = storyx.NewExecutor(game, sink, time.Now)

	default:
		return nil, fmt.Errorf("%w: unknown agent type %q", contractx.ErrValidation, cfg.Agent)
	}

	logx.For("runtime").Info().
		Str("session_id", sess.id).
		Str("agent", string(cfg.Agent)).
		Int("tools", len(sess.infos)).
		Msg("persona session created")

	return sess, nil
}

func (s *Session) ID() string { return s.id }

func (s *Session) AgentType() contractx.AgentType { return s.agentType }

// SystemPrompt is handed to the voice runtime's model configuration.
func (s *Session) SystemPrompt() string { return s.prompt }

// ToolInfos is the tool surface the dialogue policy may call.
func (s *Session) ToolInfos() []*schema.ToolInfo { return s.infos }

// Execute runs tool requests sequentially; the dialogue policy awaits each
// result before issuing the next.
func (s *Session) Execute(ctx context.Context, reqs []contractx.ToolRequest) ([]contractx.ToolResult, error) {
	results := make([]contractx.ToolResult, 0, len(reqs))
	for _, req := range reqs {
		name := strings.TrimSpace(req.Tool)
		if name == "" {
			return nil, fmt.Errorf("%w: tool name is empty", contractx.ErrValidation)
		}
		res, err := s.exec(ctx, name, req.Args)
		if err != nil {
			return nil, err
		}
		results = append(results, res)
	}
	return results, nil
}
