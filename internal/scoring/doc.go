// Package scoring evaluates quiz submissions into exact, reproducible
// scores and XP rewards. Everything here is pure computation: no I/O, no
// clock, no randomness.
package scoring
