// Package logging provides a simple leveled logging interface for the
// timeline media builder.
//
// It supports the following log levels:
//   - DEBUG: Verbose debugging information
//   - INFO: General operational messages, including per-item progress lines
//   - WARN: Warning conditions, including the unresolved media summary
//   - ERROR: Error conditions such as failed remote probes
//   - FATAL: Fatal errors that terminate the application
//
// The log level is configured via the LOG_LEVEL environment variable (or
// DEBUG=true) and can be overridden at runtime with SetLevel. Level prefixes
// are colourised when the output is a terminal.
package logging
