// Package domain defines the core business entities of the study content
// pipeline: generation parameters, study notes, quiz questions, assembled
// study packages, and quiz evaluation results, together with the validation
// rules that guard them.
package domain
