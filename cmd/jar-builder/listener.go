package main

import (
	"github.com/charmbracelet/log"

	"jar-builder/internal/jar"
)

// logListener reports every merge decision through the CLI logger. Routine
// writes go to debug so the default output only surfaces conflicts.
type logListener struct {
	logger *log.Logger
}

func (l *logListener) OnSkip(original jar.Entry, skipped []jar.Entry) {
	if original == nil {
		for _, e := range skipped {
			l.logger.Info("excluded", "path", e.JarPath(), "source", identify(e))
		}
		return
	}
	for _, e := range skipped {
		l.logger.Info("skipped duplicate",
			"path", e.JarPath(), "source", identify(e), "kept", identify(original))
	}
}

func (l *logListener) OnReplace(originals []jar.Entry, replacement jar.Entry) {
	for _, e := range originals {
		l.logger.Info("replaced",
			"path", replacement.JarPath(), "source", identify(e), "by", identify(replacement))
	}
}

func (l *logListener) OnConcat(jarPath string, entries []jar.Entry) {
	sources := make([]string, len(entries))
	for i, e := range entries {
		sources[i] = identify(e)
	}
	l.logger.Info("concatenated", "path", jarPath, "sources", sources)
}

func (l *logListener) OnWrite(entry jar.Entry) {
	l.logger.Debug("writing", "path", entry.JarPath(), "source", identify(entry))
}

func identify(e jar.Entry) string { return e.Source().Identify(e.Name()) }
