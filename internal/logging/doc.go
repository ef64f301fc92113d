// Package logging configures structured slog logging for jmhgate.
//
// Logs never go to stdout: stdout carries the comparison report that CI jobs
// parse. By default only warnings and errors reach stderr; --debug or
// --log-level lowers the threshold and --log-file redirects logs to a file.
package logging
