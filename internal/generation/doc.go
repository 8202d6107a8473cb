// Package generation provides the interfaces and logic for producing study
// content from an external AI provider. It abstracts the provider behind a
// small capability interface, runs requests through an ordered model
// fallback chain that classifies and survives transient failures, and
// parses provider output into validated study notes and quiz questions.
package generation
