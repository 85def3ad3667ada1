package presquile

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/simonhull/presquile/internal/chapters"
	"github.com/simonhull/presquile/internal/copier"
	"github.com/simonhull/presquile/internal/id3"
	"github.com/simonhull/presquile/internal/markers"
	"github.com/simonhull/presquile/internal/probe"
	"github.com/simonhull/presquile/internal/types"
)

// ProbeResult is an alias to probe.Result.
// Re-exporting from internal/probe to maintain public API.
type ProbeResult = probe.Result

// RecordLoader reads the ordered marker list from a marker file.
type RecordLoader interface {
	Load(ctx context.Context, path string) ([]Marker, error)
}

// AudioProbe reports the container format and duration of an audio file.
type AudioProbe interface {
	Probe(ctx context.Context, path string) (ProbeResult, error)
}

// FileCopier duplicates the audio file and returns the path of the copy.
type FileCopier interface {
	Copy(ctx context.Context, src string) (string, error)
}

// TagWriter writes a tag into the file at path, replacing any existing one.
type TagWriter interface {
	WriteTag(ctx context.Context, path string, tag *Tag) error
}

// Worker names reported in WorkerInterruptedError.
const (
	workerMarkers = "marker loading"
	workerProbe   = "audio probing"
	workerCopy    = "file copying"
)

// Applier writes chapter tags. It is safe for concurrent use if its
// collaborators are.
type Applier struct {
	opts *applyOptions
}

// New returns an Applier configured by opts.
func New(opts ...Option) *Applier {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	if o.loader == nil {
		o.loader = markers.Loader{}
	}
	if o.prober == nil {
		o.prober = probe.New()
	}
	if o.copier == nil {
		o.copier = copier.New()
	}
	if o.writer == nil {
		o.writer = id3.NewWriter(id3.WithTextEncoding(o.encoding))
	}

	return &Applier{opts: o}
}

// Apply is shorthand for New(opts...).Apply.
func Apply(ctx context.Context, markerPath, audioPath string, opts ...Option) (string, error) {
	return New(opts...).Apply(ctx, markerPath, audioPath)
}

// Apply reads the markers at markerPath, copies audioPath to its enriched
// path and writes the chapter tag into the copy. It returns the path of
// the copy.
//
// ctx is only consulted before any work starts; once dispatched the steps
// run to completion.
func (a *Applier) Apply(ctx context.Context, markerPath, audioPath string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ctx = context.WithoutCancel(ctx)

	log := a.opts.logger.With("mode", a.opts.mode.String(), "audio", audioPath)
	start := time.Now()

	var (
		dst string
		tag *Tag
		err error
	)
	switch a.opts.mode {
	case Concurrent:
		dst, tag, err = a.runConcurrent(ctx, log, markerPath, audioPath)
	default:
		dst, tag, err = a.runSequential(ctx, log, markerPath, audioPath)
	}
	if err != nil {
		log.Debugw("apply failed", "error", err, "elapsed", time.Since(start))
		return "", err
	}

	writeStart := time.Now()
	if err := a.opts.writer.WriteTag(ctx, dst, tag); err != nil {
		log.Debugw("tag write failed", "output", dst, "error", err)
		return "", fmt.Errorf("write tag: %w", err)
	}
	log.Debugw("tag written", "output", dst, "elapsed", time.Since(writeStart))

	log.Infow("chapters written",
		"output", dst,
		"chapters", len(tag.Chapters),
		"elapsed", time.Since(start),
	)
	return dst, nil
}

// runSequential loads, probes, builds and copies in that order, stopping at
// the first failure. Nothing is copied unless the tag can be built.
func (a *Applier) runSequential(ctx context.Context, log *zap.SugaredLogger, markerPath, audioPath string) (string, *Tag, error) {
	list, err := a.loadMarkers(ctx, log, markerPath)
	if err != nil {
		return "", nil, err
	}

	res, err := a.probeAudio(ctx, log, audioPath)
	if err != nil {
		return "", nil, err
	}

	tag, err := a.buildTag(markerPath, list, res)
	if err != nil {
		return "", nil, err
	}

	dst, err := a.copyAudio(ctx, log, audioPath)
	if err != nil {
		return "", nil, err
	}
	return dst, tag, nil
}

// runConcurrent runs loading, probing and copying in parallel and waits for
// all of them. The group has no shared context, so one failing step does not
// stop the others. Errors are reported by a fixed precedence: markers, probe,
// copy, then panics in that same order.
func (a *Applier) runConcurrent(ctx context.Context, log *zap.SugaredLogger, markerPath, audioPath string) (string, *Tag, error) {
	var (
		list    []Marker
		res     ProbeResult
		dst     string
		errs    [3]error
		panics  [3]error
		g       errgroup.Group
		started = time.Now()
	)

	g.Go(guard(workerMarkers, &errs[0], &panics[0], func() (err error) {
		list, err = a.loadMarkers(ctx, log, markerPath)
		return err
	}))
	g.Go(guard(workerProbe, &errs[1], &panics[1], func() (err error) {
		res, err = a.probeAudio(ctx, log, audioPath)
		return err
	}))
	g.Go(guard(workerCopy, &errs[2], &panics[2], func() (err error) {
		dst, err = a.copyAudio(ctx, log, audioPath)
		return err
	}))

	// Every step records its own outcome; Wait only joins.
	_ = g.Wait() //nolint:errcheck // Errors are read from the slots
	log.Debugw("concurrent steps joined", "elapsed", time.Since(started))

	for _, err := range errs {
		if err != nil {
			return "", nil, err
		}
	}
	for _, err := range panics {
		if err != nil {
			return "", nil, err
		}
	}

	tag, err := a.buildTag(markerPath, list, res)
	if err != nil {
		return "", nil, err
	}
	return dst, tag, nil
}

// guard runs fn, storing its error in errSlot and a recovered panic, as a
// WorkerInterruptedError, in panicSlot.
func guard(worker string, errSlot, panicSlot *error, fn func() error) func() error {
	return func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				err = &WorkerInterruptedError{Worker: worker, Value: r}
				*panicSlot = err
			}
		}()
		err = fn()
		*errSlot = err
		return err
	}
}

func (a *Applier) loadMarkers(ctx context.Context, log *zap.SugaredLogger, path string) ([]Marker, error) {
	start := time.Now()
	list, err := a.opts.loader.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	log.Debugw("markers loaded", "path", path, "markers", len(list), "elapsed", time.Since(start))
	return list, nil
}

// probeAudio measures the audio and rejects anything that is not MP3.
func (a *Applier) probeAudio(ctx context.Context, log *zap.SugaredLogger, path string) (ProbeResult, error) {
	start := time.Now()
	res, err := a.opts.prober.Probe(ctx, path)
	if err != nil {
		return ProbeResult{}, &AudioFormatError{Path: path, Detail: path, Err: err}
	}
	if res.ContainerFormat != types.FormatMP3.String() {
		return ProbeResult{}, &AudioFormatError{Path: path, Detail: res.ContainerFormat}
	}
	log.Debugw("audio probed",
		"path", path,
		"format", res.ContainerFormat,
		"duration_ms", res.DurationMillis(),
		"elapsed", time.Since(start),
	)
	return res, nil
}

func (a *Applier) copyAudio(ctx context.Context, log *zap.SugaredLogger, path string) (string, error) {
	start := time.Now()
	dst, err := a.opts.copier.Copy(ctx, path)
	if err != nil {
		return "", err
	}
	log.Debugw("audio copied", "output", dst, "elapsed", time.Since(start))
	return dst, nil
}

// buildTag turns markers into chapters spanning the probed duration and
// wraps them with a table of contents. The table of contents holds at most
// id3.MaxTOCEntries chapters.
func (a *Applier) buildTag(markerPath string, list []Marker, res ProbeResult) (*Tag, error) {
	if len(list) > id3.MaxTOCEntries {
		return nil, &MarkerFileError{
			Path:   markerPath,
			Reason: fmt.Sprintf("too many markers: %d (at most %d)", len(list), id3.MaxTOCEntries),
		}
	}

	built, err := chapters.Build(list, res.DurationMillis(),
		chapters.WithLayout(a.opts.layout),
		chapters.WithEndSource(a.opts.chapterEnd),
	)
	if err != nil {
		return nil, err
	}
	return id3.Assemble(built), nil
}
