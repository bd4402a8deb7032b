package registry

import (
	"os"
	"time"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/h200-index/internal/model"
)

// Snapshot is an immutable view of the provider catalog, taken once per
// process and passed into each cycle. Registry edits take effect only
// on the next load.
type Snapshot struct {
	Version   string
	LoadedAt  time.Time
	providers []model.Provider
	byName    map[string]model.Provider
}

// catalogFile is the YAML shape of a registry file.
type catalogFile struct {
	Providers []model.Provider `yaml:"providers"`
}

// Load reads a provider catalog from a YAML file. An empty path returns
// the embedded default catalog.
func Load(path string) (*Snapshot, error) {
	if path == "" {
		return newSnapshot("embedded", defaultCatalog())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "registry: read catalog %s", path)
	}

	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, eris.Wrapf(err, "registry: parse catalog %s", path)
	}

	return newSnapshot(path, file.Providers)
}

// New builds a validated snapshot from an explicit provider list.
func New(version string, providers []model.Provider) (*Snapshot, error) {
	return newSnapshot(version, providers)
}

func newSnapshot(version string, providers []model.Provider) (*Snapshot, error) {
	snap := &Snapshot{
		Version:   version,
		LoadedAt:  time.Now().UTC(),
		providers: providers,
		byName:    make(map[string]model.Provider, len(providers)),
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	for _, p := range providers {
		snap.byName[p.Name] = p
	}
	return snap, nil
}

// validate enforces the catalog invariants at load time: unique names,
// known tiers, hyperscalers carry a well-formed discount config and
// neoclouds carry none, revenue estimates are non-negative.
func (s *Snapshot) validate() error {
	if len(s.providers) == 0 {
		return eris.New("registry: catalog is empty")
	}

	seen := make(map[string]bool, len(s.providers))
	for _, p := range s.providers {
		if p.Name == "" {
			return eris.New("registry: provider with empty name")
		}
		if seen[p.Name] {
			return eris.Errorf("registry: duplicate provider %q", p.Name)
		}
		seen[p.Name] = true

		switch p.Tier {
		case model.TierHyperscaler:
			if p.Discount == nil {
				return eris.Errorf("registry: hyperscaler %q has no discount config", p.Name)
			}
			if p.Discount.Rate < 0 || p.Discount.Rate >= 1 {
				return eris.Errorf("registry: %q discount rate %v outside [0,1)", p.Name, p.Discount.Rate)
			}
			if p.Discount.DiscountedFraction < 0 || p.Discount.DiscountedFraction > 1 {
				return eris.Errorf("registry: %q discounted fraction %v outside [0,1]", p.Name, p.Discount.DiscountedFraction)
			}
		case model.TierNeocloud:
			if p.Discount != nil {
				return eris.Errorf("registry: neocloud %q has a discount config", p.Name)
			}
		default:
			return eris.Errorf("registry: provider %q has unknown tier %q", p.Name, p.Tier)
		}

		if p.QuarterlyRevenueUSD != nil && *p.QuarterlyRevenueUSD < 0 {
			return eris.Errorf("registry: provider %q has negative revenue estimate", p.Name)
		}
	}
	return nil
}

// Providers returns the catalog entries in file order. The slice is a
// copy; callers cannot mutate the snapshot.
func (s *Snapshot) Providers() []model.Provider {
	out := make([]model.Provider, len(s.providers))
	copy(out, s.providers)
	return out
}

// Get returns the provider with the given name.
func (s *Snapshot) Get(name string) (model.Provider, bool) {
	p, ok := s.byName[name]
	return p, ok
}

// Tier returns all providers in the given tier, in file order.
func (s *Snapshot) Tier(tier model.Tier) []model.Provider {
	var out []model.Provider
	for _, p := range s.providers {
		if p.Tier == tier {
			out = append(out, p)
		}
	}
	return out
}

// Len returns the number of registered providers.
func (s *Snapshot) Len() int { return len(s.providers) }
