// Package logtail reads the end of the routewatch log file for the console's
// log overlay.
//
// The console logs JSON records (see package logging) to a file because the
// terminal is taken by the UI. Tail keeps a ring of the last n non-empty
// lines while scanning, so memory stays bounded by n whatever the file
// size, and Parse turns each line back into time, level, logger and
// message. Lines that do not decode are kept verbatim in Entry.Raw.
package logtail
