package sysops

// No desktop-notification, system-beep, or text-to-speech library appears
// anywhere in the example corpus, and all three are fire-and-forget (no
// response to synthesize on failure) — so the default implementations here
// just log through the handler's own logger rather than inventing a
// platform binding. A concrete desktop binding can be swapped in by
// supplying a different NotifyFunc/Beep/SayFunc to Handlers.

// LoggingNotify builds a NotifyFunc that records notify() calls via log
// instead of raising a real desktop notification.
func LoggingNotify(log interface{ Infof(string, ...any) }) NotifyFunc {
	return func(title, body string) error {
		log.Infof("notify: %s: %s", title, body)
		return nil
	}
}

// LoggingSay builds a SayFunc that records say() calls via log instead of
// invoking a real text-to-speech engine.
func LoggingSay(log interface{ Infof(string, ...any) }) SayFunc {
	return func(text string) error {
		log.Infof("say: %s", text)
		return nil
	}
}

// LoggingBeep builds a beep callback that records beep() calls via log
// instead of emitting a real terminal bell / system sound.
func LoggingBeep(log interface{ Infof(string, ...any) }) func() {
	return func() {
		log.Infof("beep")
	}
}
