package llm

import (
	"log"
	"strings"
)

// CapabilityRule maps a model-name predicate to the maximum output
// tokens that model family is documented to support.
type CapabilityRule struct {
	// Name identifies the rule in logs.
	Name string
	// Match reports whether the rule applies to the given model name.
	Match func(model string) bool
	// MaxOutputTokens is the documented output-token ceiling.
	MaxOutputTokens int
}

// CapabilityTable is an ordered rule list. Rules are evaluated in
// declaration order and the first match wins, so more specific
// patterns (e.g. a "-mini" variant) must be listed before their
// generic family pattern. Tables are built once at startup and are
// read-only afterwards; concurrent lookups need no locking.
type CapabilityTable []CapabilityRule

// Lookup returns the output-token ceiling of the first rule matching
// model, or false when no rule matches. A rule whose predicate panics
// is treated as non-matching and evaluation continues.
func (t CapabilityTable) Lookup(model string) (maxOutputTokens int, ok bool) {
	for _, rule := range t {
		if safeMatch(rule, model) {
			return rule.MaxOutputTokens, true
		}
	}
	return 0, false
}

func safeMatch(rule CapabilityRule, model string) (matched bool) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[CAPS] rule %q panicked for model %q: %v", rule.Name, model, r)
			matched = false
		}
	}()
	if rule.Match == nil {
		return false
	}
	return rule.Match(model)
}

func matchContains(sub string) func(string) bool {
	return func(model string) bool { return strings.Contains(model, sub) }
}

func matchPrefix(prefix string) func(string) bool {
	return func(model string) bool { return strings.HasPrefix(model, prefix) }
}

// Default tables per provider family. Compact variants often support
// higher output ceilings than their flagship siblings at the same API
// version, so they are ordered first.

var openAICapabilities = CapabilityTable{
	{Name: "gpt-4o-mini", Match: matchContains("gpt-4o-mini"), MaxOutputTokens: 16384},
	{Name: "gpt-4o", Match: matchContains("gpt-4o"), MaxOutputTokens: 4096},
	{Name: "o1-mini", Match: matchPrefix("o1-mini"), MaxOutputTokens: 65536},
	{Name: "o1", Match: matchPrefix("o1"), MaxOutputTokens: 32768},
	{Name: "gpt-4-turbo", Match: matchPrefix("gpt-4-turbo"), MaxOutputTokens: 4096},
	{Name: "gpt-4", Match: matchPrefix("gpt-4"), MaxOutputTokens: 8192},
	{Name: "gpt-3.5-turbo", Match: matchPrefix("gpt-3.5-turbo"), MaxOutputTokens: 4096},
}

var anthropicCapabilities = CapabilityTable{
	{Name: "claude-3-5-haiku", Match: matchContains("claude-3-5-haiku"), MaxOutputTokens: 8192},
	{Name: "claude-3-5-sonnet", Match: matchContains("claude-3-5-sonnet"), MaxOutputTokens: 8192},
	{Name: "claude-3", Match: matchContains("claude-3"), MaxOutputTokens: 4096},
	{Name: "claude-2", Match: matchContains("claude-2"), MaxOutputTokens: 4096},
}

var geminiCapabilities = CapabilityTable{
	{Name: "gemini-2.5", Match: matchPrefix("gemini-2.5"), MaxOutputTokens: 65536},
	{Name: "gemini-2.0", Match: matchPrefix("gemini-2.0"), MaxOutputTokens: 8192},
	{Name: "gemini-1.5", Match: matchPrefix("gemini-1.5"), MaxOutputTokens: 8192},
}
