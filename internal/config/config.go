package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/latestcomment/acl-debate/internal/models"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const (
	// defaults for when not provided in Config
	DefaultListenAddr = ":3000"
	DefaultAgentAddr  = ":7001"
	DefaultWorkerURL  = "http://localhost:7001"
	DefaultMaxRounds  = 2
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
)

const sampleClaim = "Tesla's price will exceed $250 in 2 weeks."

const sampleContext = `
Tesla's current price is $207, and recent innovations and strong Q2 results will drive the price up.

News Summary 1:
Tesla stock was lower to start a new week of trading, falling as investors worry about global growth. Shares of the electric-vehicle giant were down 7.3% in premarket trading Monday at $192.33. Stocks around the world were falling as investors fretted that weak economic data signal a recession ahead. Despite positive comments from CEO Elon Musk about Tesla's sales, the stock has fallen about 16% this year and is struggling to overcome negative global investor sentiment.

News Summary 2:
Tesla faces growing competition and softening demand, impacting its stock price which is trading 43% below its all-time high. The company's profitability is declining, with earnings per share shrinking 46% year-over-year in Q2 2024. Despite recent price cuts and a plan to produce a low-cost EV model, sales growth has decelerated. Tesla is also involved in autonomous self-driving software, humanoid robots, and solar energy, but these segments may take years to significantly impact revenue.
`

type ParticipantConfig struct {
	Name string      `yaml:"name"`
	Role models.Role `yaml:"role"`
}

type SessionConfig struct {
	InitialClaim string `yaml:"initial_claim"`
	Context      string `yaml:"context"`
	MaxRounds    int    `yaml:"max_rounds"`
}

type Config struct {
	ListenAddr     string              `yaml:"listen_addr"`
	AgentAddr      string              `yaml:"agent_addr"`
	WorkerURL      string              `yaml:"worker_url"`
	RequestTimeout time.Duration       `yaml:"request_timeout"`
	Participants   []ParticipantConfig `yaml:"participants"`
	Session        SessionConfig       `yaml:"session"`

	OpenRouterAPIKey string `yaml:"-"`
	AIModel          string `yaml:"ai_model"`

	LogLevel  string `yaml:"log_level"`
	LogFormat string `yaml:"log_format"`
}

// Default reproduces the stock roster: four debaters and one verifier on a
// local worker node.
func Default() *Config {
	return &Config{
		ListenAddr: DefaultListenAddr,
		AgentAddr:  DefaultAgentAddr,
		WorkerURL:  DefaultWorkerURL,
		Participants: []ParticipantConfig{
			{Name: "Agent_1", Role: models.RoleDebater},
			{Name: "Agent_2", Role: models.RoleDebater},
			{Name: "Agent_3", Role: models.RoleDebater},
			{Name: "Agent_4", Role: models.RoleDebater},
			{Name: "VERA_Agent", Role: models.RoleVerifier},
		},
		Session: SessionConfig{
			InitialClaim: sampleClaim,
			Context:      sampleContext,
			MaxRounds:    DefaultMaxRounds,
		},
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}
}

// Load reads .env (if present), then the YAML file at path (if non-empty)
// over the defaults, then environment overrides.
func Load(path string) (*Config, error) {
	_ = godotenv.Load() // a missing .env is fine

	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.OpenRouterAPIKey = os.Getenv("OPENROUTER_API_KEY")
	if v := os.Getenv("AI_MODEL"); v != "" {
		cfg.AIModel = v
	}
	if v := os.Getenv("DEBATE_LISTEN_ADDR"); v != "" {
		cfg.ListenAddr = v
	}
	if v := os.Getenv("DEBATE_WORKER_URL"); v != "" {
		cfg.WorkerURL = v
	}
	if v := os.Getenv("DEBATE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if c == nil {
		return errors.New("nil config")
	}

	if len(c.Participants) == 0 {
		return errors.New("empty participants")
	}

	seen := make(map[string]bool, len(c.Participants))
	verifiers := 0
	for _, p := range c.Participants {
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("invalid participant name=%q", p.Name)
		}
		if seen[p.Name] {
			return fmt.Errorf("duplicate participant name=%s", p.Name)
		}
		seen[p.Name] = true

		switch p.Role {
		case models.RoleDebater:
		case models.RoleVerifier:
			verifiers++
		default:
			return fmt.Errorf("invalid role for participant=%s", p.Name)
		}
	}
	if verifiers != 1 {
		return fmt.Errorf("verifiers=%d, roster must have exactly one verifier", verifiers)
	}

	if c.Session.MaxRounds < 0 {
		return fmt.Errorf("invalid MaxRounds=%d", c.Session.MaxRounds)
	}

	if c.RequestTimeout < 0 {
		return fmt.Errorf("invalid RequestTimeout=%s", c.RequestTimeout)
	}

	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid LogLevel=%s", c.LogLevel)
	}

	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("invalid LogFormat=%s", c.LogFormat)
	}

	return nil
}

// Roster builds the participant list in configured order.
func (c *Config) Roster() []models.Participant {
	roster := make([]models.Participant, 0, len(c.Participants))
	for _, p := range c.Participants {
		roster = append(roster, models.NewParticipant(p.Name, p.Role))
	}
	return roster
}

func (c *Config) NewLogger() (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("invalid LogLevel=%s: %w", c.LogLevel, err)
	}

	log := logrus.New()
	log.SetOutput(os.Stderr)
	log.SetLevel(level)
	if c.LogFormat == "json" {
		log.SetFormatter(&logrus.JSONFormatter{})
	} else {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	}
	return log, nil
}
