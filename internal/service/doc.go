// Package service coordinates the study content workflow: it checks the
// content cache, drives the notes and quiz generators on a miss, populates
// the cache with the result, and fans out across topics for batch calls.
// Cache failures degrade to generation rather than failing a request; a
// failed cache write is logged and absorbed.
package service
