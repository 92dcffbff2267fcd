package inliner

import (
	"github.com/charmbracelet/log"
	"github.com/viant/inliner/transform"
)

// Option represents an inliner option
type Option func(*Inliner)

// WithLogger sets logger used for round and classification diagnostics
func WithLogger(logger *log.Logger) Option {
	return func(i *Inliner) {
		if logger != nil {
			i.logger = logger
		}
	}
}

// WithMarkers sets marker tokens recognized in unit sources
func WithMarkers(markers transform.Markers) Option {
	return func(i *Inliner) {
		i.transformer = transform.New(markers)
	}
}
