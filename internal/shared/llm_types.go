// Package shared holds the types every LLM-backed agent reports back.
package shared

import (
	"time"
)

// TokenUsage tracks the tokens consumed by one model call.
type TokenUsage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
	Model            string
}

// Billable reports whether the call consumed any tokens. Cache hits do not.
func (u TokenUsage) Billable() bool {
	return u.PromptTokens > 0 || u.CompletionTokens > 0
}

// Total returns TotalTokens, or the sum of prompt and completion when the
// provider did not report a total.
func (u TokenUsage) Total() int {
	if u.TotalTokens > 0 {
		return u.TotalTokens
	}
	return u.PromptTokens + u.CompletionTokens
}

// AgentMeta describes one agent execution (clipping, suggesting) for metrics.
type AgentMeta struct {
	AgentName string
	Usage     TokenUsage
	Latency   time.Duration
}
