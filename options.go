package presquile

import (
	"go.uber.org/zap"
)

// Option configures an Applier.
//
// Options use the functional options pattern for clean, extensible APIs.
//
// Example:
//
//	out, err := presquile.Apply(ctx, markers, audio,
//	    presquile.WithMode(presquile.Concurrent),
//	    presquile.WithLogger(logger.Sugar()),
//	)
type Option func(*applyOptions)

// applyOptions holds the configuration of an Applier.
type applyOptions struct {
	mode       Mode
	logger     *zap.SugaredLogger
	layout     TimeCodeLayout
	chapterEnd ChapterEnd
	encoding   TextEncoding

	loader RecordLoader
	prober AudioProbe
	copier FileCopier
	writer TagWriter
}

// defaultOptions returns the default configuration. Collaborators left nil
// are filled in by New.
func defaultOptions() *applyOptions {
	return &applyOptions{
		mode:       Sequential,
		logger:     zap.NewNop().Sugar(),
		layout:     FlexibleTimeCodes,
		chapterEnd: EndFromNextStart,
		encoding:   UTF8,
	}
}

// WithMode selects Sequential (default) or Concurrent execution of the
// loading, probing and copying steps.
func WithMode(m Mode) Option {
	return func(o *applyOptions) {
		o.mode = m
	}
}

// WithLogger sets the logger for step timings and results.
// By default nothing is logged.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *applyOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTimeCodeLayout sets which Start shapes are accepted.
// Default is FlexibleTimeCodes.
func WithTimeCodeLayout(l TimeCodeLayout) Option {
	return func(o *applyOptions) {
		o.layout = l
	}
}

// WithChapterEnd sets how chapter end times are derived.
//
// EndFromNextStart (default) ends each chapter where the next begins.
// EndFromDuration uses the Duration column of the marker file instead,
// capped at the end of the audio.
func WithChapterEnd(e ChapterEnd) Option {
	return func(o *applyOptions) {
		o.chapterEnd = e
	}
}

// WithTextEncoding sets how chapter titles are written. Default is UTF8.
// Ignored when WithTagWriter is given.
func WithTextEncoding(enc TextEncoding) Option {
	return func(o *applyOptions) {
		o.encoding = enc
	}
}

// WithRecordLoader replaces the marker file reader.
func WithRecordLoader(l RecordLoader) Option {
	return func(o *applyOptions) {
		o.loader = l
	}
}

// WithAudioProbe replaces the audio prober.
func WithAudioProbe(p AudioProbe) Option {
	return func(o *applyOptions) {
		o.prober = p
	}
}

// WithFileCopier replaces the step that creates the enriched copy.
func WithFileCopier(c FileCopier) Option {
	return func(o *applyOptions) {
		o.copier = c
	}
}

// WithTagWriter replaces the step that writes the tag into the copy.
func WithTagWriter(w TagWriter) Option {
	return func(o *applyOptions) {
		o.writer = w
	}
}
