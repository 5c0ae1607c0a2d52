package log

// Version is the current version of the log module.
const Version = "0.3.0"
