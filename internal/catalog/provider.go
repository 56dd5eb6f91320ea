package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Shard is the on-disk form of one catalog file. Multiple shards are merged
// into a single logical catalog at load time.
type Shard struct {
	// Categories maps category id to parts keyed by part number.
	Categories map[string]map[string]Part `json:"categories"`
	// Engines maps canonical engine code to its fixed parts list.
	Engines map[string]EngineEntry `json:"engines,omitempty"`
	// EngineIndex maps folded brand name to engine lookups.
	EngineIndex map[string]BrandEngines `json:"engineIndex,omitempty"`
}

// StaticProvider serves a fully in-memory catalog merged from shards.
type StaticProvider struct {
	categories  map[string]map[string]Part
	engines     map[string]EngineEntry
	engineIndex map[string]BrandEngines
}

// NewStaticProvider merges the given shards into one provider. Later shards
// win on part-number collisions within a category.
func NewStaticProvider(shards ...Shard) *StaticProvider {
	p := &StaticProvider{
		categories:  make(map[string]map[string]Part),
		engines:     make(map[string]EngineEntry),
		engineIndex: make(map[string]BrandEngines),
	}
	for _, shard := range shards {
		p.merge(shard)
	}
	return p
}

// LoadDir reads every *.json shard in dir and merges them in lexical order.
func LoadDir(dir string) (*StaticProvider, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read catalog dir: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)

	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog shards in %s", dir)
	}

	var shards []Shard
	for _, path := range paths {
		shard, err := loadShard(path)
		if err != nil {
			return nil, err
		}
		shards = append(shards, shard)
	}

	return NewStaticProvider(shards...), nil
}

func loadShard(path string) (Shard, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Shard{}, fmt.Errorf("read shard %s: %w", path, err)
	}
	var shard Shard
	if err := json.Unmarshal(data, &shard); err != nil {
		return Shard{}, fmt.Errorf("parse shard %s: %w", path, err)
	}
	return shard, nil
}

func (p *StaticProvider) merge(shard Shard) {
	for categoryID, parts := range shard.Categories {
		slice := p.categories[categoryID]
		if slice == nil {
			slice = make(map[string]Part)
			p.categories[categoryID] = slice
		}
		for number, part := range parts {
			if part.Number == "" {
				part.Number = number
			}
			slice[number] = part
		}
	}
	for code, entry := range shard.Engines {
		p.engines[strings.ToUpper(code)] = entry
	}
	for brand, lookup := range shard.EngineIndex {
		key := strings.ToLower(strings.TrimSpace(brand))
		existing, ok := p.engineIndex[key]
		if !ok {
			existing = BrandEngines{Models: make(map[string]string)}
		}
		if existing.Models == nil {
			existing.Models = make(map[string]string)
		}
		if lookup.Default != "" {
			existing.Default = lookup.Default
		}
		for model, code := range lookup.Models {
			existing.Models[strings.ToLower(strings.TrimSpace(model))] = code
		}
		p.engineIndex[key] = existing
	}
}

// Category returns one category's parts keyed by part number.
func (p *StaticProvider) Category(id string) map[string]Part {
	return p.categories[id]
}

// CategoryIDs returns all category ids present, sorted for determinism.
func (p *StaticProvider) CategoryIDs() []string {
	ids := make([]string, 0, len(p.categories))
	for id := range p.categories {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EngineCodeFor resolves a (brand, model) pair to a canonical engine code.
// Model-level entries win; the brand default covers the rest.
func (p *StaticProvider) EngineCodeFor(brand, model string) (string, bool) {
	lookup, ok := p.engineIndex[strings.ToLower(strings.TrimSpace(brand))]
	if !ok {
		return "", false
	}
	if code, ok := lookup.Models[strings.ToLower(strings.TrimSpace(model))]; ok {
		return code, true
	}
	if lookup.Default != "" {
		return lookup.Default, true
	}
	return "", false
}

// EngineParts returns the fixed parts list for an engine code.
func (p *StaticProvider) EngineParts(code string) (map[string][]string, bool) {
	entry, ok := p.engines[strings.ToUpper(strings.TrimSpace(code))]
	if !ok {
		return nil, false
	}
	return entry.Parts, true
}
