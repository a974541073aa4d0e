package main

// Default limits for CLI commands.
const (
	DefaultAuditLimit = 50
)
