// Package logging configures log/slog for prettyresults.
//
// Without --debug, commands log warnings and errors to stderr as text.
// With --debug, JSON logs at debug level go to a size-rotated file under
// ~/.prettyresults/logs/ and to stderr.
package logging
