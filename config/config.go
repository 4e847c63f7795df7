// Package config handles reading and writing the courtmesh YAML configuration
// used by the CLI: the participant roster, the resource to book and the
// negotiation timeouts. The library itself never reads files; embedders
// configure it in code.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hupe1980/courtmesh/core"
	"github.com/hupe1980/courtmesh/engine"
)

// ParticipantsEnvVar overrides the configured roster with a comma separated
// list of "id=url" pairs (bare URLs get the host as id).
const ParticipantsEnvVar = "COURTMESH_PARTICIPANTS"

// Config is the top-level structure of a courtmesh config file.
type Config struct {
	Resource     string              `yaml:"resource"`
	Reference    string              `yaml:"reference"`
	SlotMinutes  int                 `yaml:"slot_minutes"`
	DaysAhead    int                 `yaml:"days_ahead"`
	Negotiation  NegotiationConfig   `yaml:"negotiation"`
	Participants []ParticipantConfig `yaml:"participants"`
}

// NegotiationConfig mirrors engine.Config in file-friendly units.
type NegotiationConfig struct {
	QueryTimeoutSeconds int `yaml:"query_timeout_seconds"`
	DeadlineSeconds     int `yaml:"deadline_seconds"`
	TimeoutRetries      int `yaml:"timeout_retries"`
	BookingRetries      int `yaml:"booking_retries"`
}

// ParticipantConfig is one roster entry.
type ParticipantConfig struct {
	ID       string `yaml:"id"`
	Endpoint string `yaml:"endpoint"`
}

// Default returns the demo configuration: one court, two local participants
// on the well-known demo ports, searching the next three days.
func Default() *Config {
	return &Config{
		Resource:    "court-1",
		Reference:   "badminton group",
		SlotMinutes: 60,
		DaysAhead:   3,
		Negotiation: NegotiationConfig{
			QueryTimeoutSeconds: 10,
			DeadlineSeconds:     25,
			TimeoutRetries:      1,
			BookingRetries:      3,
		},
		Participants: []ParticipantConfig{
			{ID: "jeff", Endpoint: "http://localhost:10004"},
			{ID: "mark", Endpoint: "http://localhost:10005"},
		},
	}
}

// Read loads a config file. A missing file is not an error: defaults are
// returned so the demo runs with zero setup.
func Read(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return Default(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return cfg, nil
}

// Write marshals cfg to path.
func Write(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// EngineConfig converts the file representation into engine tuning values.
func (c *Config) EngineConfig() engine.Config {
	return engine.Config{
		QueryTimeout:   time.Duration(c.Negotiation.QueryTimeoutSeconds) * time.Second,
		Deadline:       time.Duration(c.Negotiation.DeadlineSeconds) * time.Second,
		TimeoutRetries: c.Negotiation.TimeoutRetries,
		BookingRetries: c.Negotiation.BookingRetries,
	}
}

// Roster returns the participants, honoring the environment override.
func (c *Config) Roster() []core.Participant {
	if raw := os.Getenv(ParticipantsEnvVar); strings.TrimSpace(raw) != "" {
		return ParseRoster(raw)
	}
	out := make([]core.Participant, 0, len(c.Participants))
	for _, p := range c.Participants {
		out = append(out, core.Participant{ID: p.ID, Endpoint: p.Endpoint})
	}
	return out
}

// ParseRoster parses a comma separated roster like
// "jeff=http://localhost:10004,mark=http://localhost:10005". Entries without
// an id use the endpoint itself.
func ParseRoster(raw string) []core.Participant {
	var out []core.Participant
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		id, endpoint, found := strings.Cut(entry, "=")
		if !found {
			endpoint = strings.TrimSuffix(entry, "/")
			id = strings.TrimPrefix(strings.TrimPrefix(endpoint, "https://"), "http://")
		}
		out = append(out, core.Participant{ID: strings.TrimSpace(id), Endpoint: strings.TrimSuffix(strings.TrimSpace(endpoint), "/")})
	}
	return out
}
