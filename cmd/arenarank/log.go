package main

import "log"

var debug bool

func setDebug(enable bool) {
	debug = enable
	if enable {
		log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	}
}

// debugf will conditionally log a formatted debug message
func debugf(format string, args ...any) {
	if debug {
		log.Printf("DEBUG: "+format, args...)
	}
}
