// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

// Package translate renders diagnostic strings in the user's locale.
package translate

import (
	"log"
	"sync"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	mutex   sync.Mutex
	printer *message.Printer
)

// getPrinter returns the active printer, matching the system locales on first use.
func getPrinter() *message.Printer {
	mutex.Lock()
	defer mutex.Unlock()

	if printer != nil {
		return printer
	}

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("iss: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = message.NewPrinter(message.MatchLanguage(locales...))

	return printer
}

// SetLanguage forces the language used for all further translations.
// An unparseable tag is reported, and the current language is kept.
func SetLanguage(tag string) (err error) {
	lang, err := language.Parse(tag)
	if err != nil {
		return
	}

	mutex.Lock()
	printer = message.NewPrinter(lang)
	mutex.Unlock()

	return
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return getPrinter().Sprintf(key, args...)
}
