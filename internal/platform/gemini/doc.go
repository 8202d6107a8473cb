// Package gemini implements the generation.ModelCaller capability over
// Google's Gemini API. It maps provider failures onto the generation
// package's transient/permanent taxonomy so the fallback chain can decide
// whether to advance, and paces outbound requests with a client-side rate
// limiter to stay under the provider's quota.
package gemini
