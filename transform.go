package csvtrim

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
)

// DefaultDelimiter separates input fields unless WithDelimiter says otherwise.
const DefaultDelimiter = ","

var (
	// ErrSourceNotFound is returned when the input path does not exist. It matches fs.ErrNotExist.
	ErrSourceNotFound = fmt.Errorf("csvtrim: source not found: %w", fs.ErrNotExist)
	// ErrInvalidLength is returned for a negative maximum description length.
	ErrInvalidLength = errors.New("csvtrim: max description length must not be negative")
	// ErrNoPath is returned when the input or output path is empty.
	ErrNoPath = errors.New("csvtrim: input and output paths are required")
	// ErrSourceIsDir is returned when the input path names a directory.
	ErrSourceIsDir = errors.New("csvtrim: source is a directory")
)

// Job describes one transformation. It lives only for the duration of Run.
type Job struct {
	Input                string
	Output               string
	MaxDescriptionLength int
	// Delimiter splits input lines. Empty means DefaultDelimiter.
	Delimiter string
	// Strict aborts the job on the first malformed record instead of skipping it.
	Strict bool
	// Graphemes measures the description in grapheme clusters rather than runes.
	Graphemes bool
	// Logger receives debug events. Nil means slog.Default().
	Logger *slog.Logger
}

// Result reports what a job did.
type Result struct {
	// Written is the number of records in the output file.
	Written int
	// Skipped is the number of malformed records left out of the output.
	Skipped int
}

// Option adjusts a Job built by Transform.
type Option func(*Job)

// WithDelimiter sets the input field delimiter.
func WithDelimiter(d string) Option {
	return func(j *Job) {
		j.Delimiter = d
	}
}

// WithStrict makes a malformed record fail the whole job.
func WithStrict(strict bool) Option {
	return func(j *Job) {
		j.Strict = strict
	}
}

// WithGraphemes counts the description limit in grapheme clusters.
func WithGraphemes(on bool) Option {
	return func(j *Job) {
		j.Graphemes = on
	}
}

// WithLogger routes debug events to l.
func WithLogger(l *slog.Logger) Option {
	return func(j *Job) {
		j.Logger = l
	}
}

// Transform reads inputPath, writes the normalised rows to outputPath and returns the
// number of records written. Malformed records are skipped unless WithStrict is given.
func Transform(inputPath, outputPath string, maxDescriptionLength int, opts ...Option) (int, error) {
	job := Job{
		Input:                inputPath,
		Output:               outputPath,
		MaxDescriptionLength: maxDescriptionLength,
		Delimiter:            DefaultDelimiter,
	}
	for _, opt := range opts {
		opt(&job)
	}

	res, err := Run(job)
	return res.Written, err
}

// Validate reports whether the job can run.
func (j Job) Validate() error {
	if j.Input == "" || j.Output == "" {
		return ErrNoPath
	}
	if j.MaxDescriptionLength < 0 {
		return ErrInvalidLength
	}
	return nil
}

// Run executes job. The output file is replaced only when the job succeeds; on any
// error the destination is left as it was.
func Run(job Job) (Result, error) {
	if err := job.Validate(); err != nil {
		return Result{}, err
	}
	logger := job.Logger
	if logger == nil {
		logger = slog.Default()
	}

	src, err := openSource(job.Input)
	if err != nil {
		return Result{}, err
	}
	defer src.Close()

	tmp, err := os.CreateTemp(filepath.Dir(job.Output), "."+filepath.Base(job.Output)+".*.tmp")
	if err != nil {
		return Result{}, fmt.Errorf("csvtrim: creating output: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	res, err := job.copyRows(src, tmp, logger)
	if err != nil {
		return Result{}, err
	}

	if err := tmp.Chmod(0o644); err != nil {
		return Result{}, fmt.Errorf("csvtrim: creating output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return Result{}, fmt.Errorf("csvtrim: writing output: %w", err)
	}
	if err := atomic.ReplaceFile(tmp.Name(), job.Output); err != nil {
		os.Remove(tmp.Name())
		committed = true
		return Result{}, fmt.Errorf("csvtrim: replacing output: %w", err)
	}
	committed = true

	logger.Debug("transform finished", "input", job.Input, "output", job.Output, "written", res.Written, "skipped", res.Skipped)
	return res, nil
}

func openSource(path string) (*os.File, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
	}
	if err != nil {
		return nil, fmt.Errorf("csvtrim: opening source: %w", err)
	}

	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("csvtrim: opening source: %w", err)
	}
	if info.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrSourceIsDir, path)
	}
	return f, nil
}

// copyRows streams records from src to dst, one output line per well-formed record.
func (j Job) copyRows(src io.Reader, dst io.Writer, logger *slog.Logger) (Result, error) {
	truncate := Truncate
	if j.Graphemes {
		truncate = TruncateGraphemes
	}

	r := NewReader(src)
	if j.Delimiter != "" {
		r.Comma = j.Delimiter
	}
	r.ReuseRecord = true
	w := NewWriter(dst)

	var res Result
	for {
		fields, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Result{}, fmt.Errorf("csvtrim: reading source: %w", err)
		}

		row, err := parseRow(fields, j.MaxDescriptionLength, truncate)
		if err != nil {
			if j.Strict {
				return Result{}, &ParseError{Line: r.Line(), Err: err}
			}
			logger.Debug("skipping malformed record", "line", r.Line(), "fields", len(fields))
			res.Skipped++
			continue
		}
		if err := w.WriteRow(row); err != nil {
			return Result{}, fmt.Errorf("csvtrim: writing output: %w", err)
		}
	}

	if err := w.Flush(); err != nil {
		return Result{}, fmt.Errorf("csvtrim: writing output: %w", err)
	}
	res.Written = w.Records()
	return res, nil
}
