// Package api provides HTTP handlers for the study content API.
package api
