// Package logging provides a structured logging wrapper around charmbracelet/log.
package logging

// Field names for structured logging.
const (
	// Common fields.
	FieldError      = "error"
	FieldPath       = "path"
	FieldPaths      = "paths"
	FieldFiles      = "files"
	FieldWorkingDir = "working_dir"
	FieldLine       = "line"

	// Configuration fields.
	FieldConfig = "config"
	FieldRules  = "rules"
	FieldWrite  = "write"
	FieldJobs   = "jobs"
	FieldFormat = "format"

	// Rewrite fields.
	FieldRule     = "rule"
	FieldReplaced = "replaced"
	FieldDeleted  = "deleted"
	FieldCreated  = "created"
	FieldCategory = "category"

	// Statistics fields.
	FieldFilesDiscovered = "files_discovered"
	FieldFilesProcessed  = "files_processed"
	FieldFilesChanged    = "files_changed"
	FieldFilesFailed     = "files_failed"

	// Version fields.
	FieldVersion = "version"
	FieldCommit  = "commit"
	FieldBuilt   = "built"
)
