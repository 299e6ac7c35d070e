// Package resolve turns a free-text question into a ranked, formatted answer
// by trying heterogeneous data sources in a fixed priority order.
//
// The orchestrator walks the tiers: fleet (when the query pre-classifies as
// vehicle-related), inventory, fleet again as a fallback, knowledge base, and
// finally an external AI assistant. Each tier either produces a formatted
// answer or yields nothing and the walk continues; failures inside a tier are
// contained and count as "no answer". The caller always gets a string.
package resolve

import (
	"context"
	"strings"

	"github.com/yardpilot/yardpilot/internal/cache"
	"github.com/yardpilot/yardpilot/internal/llm"
	"github.com/yardpilot/yardpilot/internal/store"
)

// Source identifies which tier produced an answer.
type Source string

const (
	SourceTrucks    Source = "trucks"
	SourceInventory Source = "inventory"
	SourceKnowledge Source = "knowledge"
	SourceAI        Source = "ai"
	SourceNone      Source = "none"
	SourceError     Source = "error"
)

// Answer is the orchestrator's result: always a non-empty text plus the tier
// that produced it.
type Answer struct {
	Text   string `json:"text"`
	Source Source `json:"source"`
}

// Keep thresholds. Hand-tuned in the original system; the knowledge one is
// configurable, the record-search ones are shared by inventory and fleet.
const (
	recordThreshold           = 30.0
	DefaultKnowledgeThreshold = 40.0
)

const (
	emptyQueryMessage   = "Ask me about stock, trucks, or anything in the yard notes."
	nothingFoundMessage = "I couldn't find anything matching that in stock, the fleet, or the notes."
	apologyMessage      = "Sorry, something went wrong answering that. Please try again."
)

// fleetKeywords pre-classify a query as vehicle-related. This is a cheap
// routing filter, not the relevance score.
var fleetKeywords = []string{
	"truck", "van", "vehicle", "trailer", "fleet", "plate", "mileage",
	"maintenance", "oil change", "inspection", "ford", "chevy", "ram",
	"f-150", "f-250", "f-350", "silverado", "transit", "dump",
}

// Config wires an Orchestrator.
type Config struct {
	Store store.Store
	Cache cache.AnswerCache

	// Assistant is the external AI collaborator for the last tier. Nil
	// means not configured: exhausted queries answer "nothing found".
	Assistant llm.Assistant

	// FleetDisabled drops both fleet tiers, for deployments without a
	// vehicle roster.
	FleetDisabled bool

	// KnowledgeThreshold overrides the knowledge keep-threshold. Zero
	// selects DefaultKnowledgeThreshold.
	KnowledgeThreshold float64
}

// Orchestrator resolves queries tier by tier.
type Orchestrator struct {
	store              store.Store
	cache              cache.AnswerCache
	assistant          llm.Assistant
	fleetEnabled       bool
	knowledgeThreshold float64
}

// New creates an Orchestrator.
func New(cfg Config) *Orchestrator {
	kt := cfg.KnowledgeThreshold
	if kt <= 0 {
		kt = DefaultKnowledgeThreshold
	}
	return &Orchestrator{
		store:              cfg.Store,
		cache:              cfg.Cache,
		assistant:          cfg.Assistant,
		fleetEnabled:       !cfg.FleetDisabled,
		knowledgeThreshold: kt,
	}
}

// Resolve answers a free-text query. It never returns an empty text and
// never panics across this boundary; a tier that blows up simply produces
// no answer.
func (o *Orchestrator) Resolve(ctx context.Context, query string) Answer {
	if strings.TrimSpace(query) == "" {
		return Answer{Text: emptyQueryMessage, Source: SourceError}
	}

	fleetRelated := o.classifyFleet(query)

	if fleetRelated && o.fleetEnabled {
		if text := o.tier(func() string { return o.searchFleet(ctx, query) }); text != "" {
			return Answer{Text: text, Source: SourceTrucks}
		}
	}

	if text := o.tier(func() string { return o.searchInventory(ctx, query) }); text != "" {
		return Answer{Text: text, Source: SourceInventory}
	}

	if !fleetRelated && o.fleetEnabled {
		if text := o.tier(func() string { return o.searchFleet(ctx, query) }); text != "" {
			return Answer{Text: text, Source: SourceTrucks}
		}
	}

	if text := o.tier(func() string { return o.searchKnowledge(ctx, query) }); text != "" {
		return Answer{Text: text, Source: SourceKnowledge}
	}

	if o.assistant != nil {
		text, err := o.askAssistant(ctx, query)
		if err != nil || strings.TrimSpace(text) == "" {
			return Answer{Text: apologyMessage, Source: SourceError}
		}
		return Answer{Text: text, Source: SourceAI}
	}

	return Answer{Text: nothingFoundMessage, Source: SourceNone}
}

// tier runs one resolver with panic containment. A panicking tier produced
// no answer; the orchestrator degrades to the next one.
func (o *Orchestrator) tier(fn func() string) (text string) {
	defer func() {
		if r := recover(); r != nil {
			text = ""
		}
	}()
	return fn()
}

func (o *Orchestrator) classifyFleet(query string) bool {
	q := strings.ToLower(query)
	for _, kw := range fleetKeywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

const assistantBackground = "You are the operations assistant for a landscaping supply yard. " +
	"Answer briefly and practically. The local stock, fleet and notes had no match for this question."

func (o *Orchestrator) askAssistant(ctx context.Context, query string) (string, error) {
	return o.assistant.Ask(ctx, query, assistantBackground)
}

// cached wraps a tier computation with the answer cache. Cache failures are
// misses; an empty computed answer is never cached.
func (o *Orchestrator) cached(ctx context.Context, tag, query string, compute func() string) string {
	key := cache.Key(tag, query)
	if o.cache != nil {
		if hit, ok := o.cache.Get(ctx, key); ok {
			return hit
		}
	}
	text := compute()
	if text != "" && o.cache != nil {
		o.cache.Set(ctx, key, text)
	}
	return text
}
