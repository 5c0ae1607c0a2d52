// Package log is the logging facade shared by every mininet component.
//
// A single logger, returned by Lg, is created on first use and reused for the
// life of the process. It writes the message text of each record to stderr
// with no prefix and, unlike most loggers, no trailing newline:
//
//	log.Info("*** Adding hosts:\n")
//	for _, h := range hosts {
//		log.Info("%s ", h)
//	}
//	log.Info("\n")
//
// # Levels
//
// The recognized level names are the keys of Levels: debug, info, warning,
// error and critical. Only warnings and above are shown until the threshold
// is changed:
//
//	if err := log.SetLogLevel("info"); err != nil {
//		return err
//	}
//
// SetLogLevel("") restores DefaultLevel.
//
// # Concurrency
//
// Thresholds are read and written atomically, and each record reaches the
// output stream in one Write call. Nothing serializes records from different
// goroutines, so partial-line output from concurrent callers can interleave.
//
// # Global zerolog level
//
// Records are built with zerolog, which also drops anything below
// zerolog.GlobalLevel(). A program that raises the global level with
// zerolog.SetGlobalLevel mutes this logger too, whatever SetLogLevel says.
// Leave the global level at its default (trace) to let SetLogLevel decide.
//
// # Version
//
// Current version: 0.3.0. The Version constant carries the same value.
package log
