package telemetry

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultScenario is the name given to the built-in reference snapshot.
const DefaultScenario = "default"

// Provider hands out telemetry one record at a time. Len is the number of
// distinct records a provider cycles through.
type Provider interface {
	Get() *Telemetry
	Len() int
}

var _ Provider = (*StaticProvider)(nil)
var _ Provider = (*ScenarioProvider)(nil)

// StaticProvider always returns the same snapshot, stamped with the current time.
type StaticProvider struct {
	name     string
	snapshot Snapshot
	now      func() time.Time
}

// NewStaticProvider creates a provider for a fixed snapshot.
func NewStaticProvider(name string, s Snapshot) *StaticProvider {
	return &StaticProvider{name: name, snapshot: s, now: time.Now}
}

func (p *StaticProvider) Get() *Telemetry {
	return &Telemetry{
		Scenario:  p.name,
		Timestamp: p.now().UTC(),
		Snapshot:  p.snapshot,
	}
}

// Len is always one.
func (p *StaticProvider) Len() int {
	return 1
}

// Scenario is a named snapshot as read from a scenario file.
type Scenario struct {
	Name     string   `yaml:"name"`
	Enabled  *bool    `yaml:"enabled"`
	Snapshot Snapshot `yaml:"snapshot"`
}

// IsEnabled reports whether the scenario takes part in a run. Scenarios are
// enabled unless explicitly switched off.
func (s Scenario) IsEnabled() bool {
	return s.Enabled == nil || *s.Enabled
}

// Scenarios is a list of scenarios. Fields omitted from a scenario's snapshot
// take their value from DefaultSnapshot.
type Scenarios []Scenario

func (s *Scenarios) UnmarshalYAML(node *yaml.Node) error {
	var raw []yaml.Node
	if err := node.Decode(&raw); err != nil {
		return err
	}

	out := make(Scenarios, len(raw))
	for i := range raw {
		sc := Scenario{Snapshot: DefaultSnapshot()}
		if err := raw[i].Decode(&sc); err != nil {
			return fmt.Errorf("decoding scenario %d: %w", i, err)
		}
		out[i] = sc
	}

	*s = out
	return nil
}

// ScenarioProvider hands out enabled scenarios in round-robin order.
type ScenarioProvider struct {
	mu        sync.Mutex
	scenarios []Scenario
	next      int
	now       func() time.Time
}

// NewScenarioProvider creates a provider over the enabled scenarios. It fails
// when none are enabled or two scenarios share a name.
func NewScenarioProvider(scenarios []Scenario) (*ScenarioProvider, error) {
	seen := make(map[string]struct{}, len(scenarios))

	var enabled []Scenario
	for i, s := range scenarios {
		if s.Name == "" {
			return nil, fmt.Errorf("scenario %d: name is required", i)
		}
		if _, ok := seen[s.Name]; ok {
			return nil, fmt.Errorf("scenario '%s' already exists", s.Name)
		}
		seen[s.Name] = struct{}{}

		if s.IsEnabled() {
			enabled = append(enabled, s)
		}
	}
	if len(enabled) == 0 {
		return nil, errors.New("no enabled scenarios")
	}

	return &ScenarioProvider{scenarios: enabled, now: time.Now}, nil
}

// LoadScenarios reads a YAML document with a top level "scenarios" list.
func LoadScenarios(r io.Reader) (Scenarios, error) {
	var doc struct {
		Scenarios Scenarios `yaml:"scenarios"`
	}
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decoding scenarios: %w", err)
	}
	return doc.Scenarios, nil
}

// LoadScenarioFile is LoadScenarios for a file on disk.
func LoadScenarioFile(path string) (Scenarios, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening scenario file: %w", err)
	}
	defer f.Close()

	return LoadScenarios(f)
}

// Get returns the next scenario, wrapping around after the last one.
func (p *ScenarioProvider) Get() *Telemetry {
	p.mu.Lock()
	defer p.mu.Unlock()

	s := p.scenarios[p.next]
	p.next = (p.next + 1) % len(p.scenarios)

	return &Telemetry{
		Scenario:  s.Name,
		Timestamp: p.now().UTC(),
		Snapshot:  s.Snapshot,
	}
}

// Len returns the number of enabled scenarios.
func (p *ScenarioProvider) Len() int {
	return len(p.scenarios)
}
