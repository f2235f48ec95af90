package app

import (
	"context"
	"io"
	"os"
	"time"

	"clinvartab/internal/config"
	"clinvartab/internal/errors"
	"clinvartab/internal/extract"
	"clinvartab/internal/logger"
	"clinvartab/internal/pipeline"
	"clinvartab/internal/report"
	"clinvartab/internal/sink"
	"clinvartab/internal/stream"
)

type runner struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (r *runner) setupLogging(cfg config.Config) error {
	return logger.Initialize(r.stderr, cfg.Verbose, cfg.LogJSON)
}

// open returns the decompressed input. Stdin attached to a terminal is a
// usage error: nobody types a ClinVar release.
func (r *runner) open(cfg config.Config) (io.ReadCloser, error) {
	fromStdin := cfg.Input == "" || cfg.Input == "-"
	if fromStdin && stream.IsTerminal(r.stdin) {
		return nil, errors.WithHint(
			errors.Mark(errors.New("refusing to read XML from a terminal"), errors.ErrUsage),
			"pass --input FILE or pipe a release into stdin")
	}
	in, c, err := stream.Open(cfg.Input, r.stdin)
	if err != nil {
		return nil, err
	}
	logger.ComponentLogger("input").Infow("input opened",
		logger.FieldFile, displayName(cfg.Input, "stdin"),
		"compression", c.String())
	return in, nil
}

// create returns the destination. Records are not written to a terminal:
// when stdout is one and no output path is set they are discarded.
func (r *runner) create(cfg config.Config) (io.WriteCloser, error) {
	dst := r.stdout
	if (cfg.Output == "" || cfg.Output == "-") && stream.IsTerminal(r.stdout) {
		logger.Logger.Warnw("stdout is a terminal; records will be discarded (use --output or a pipe)")
		dst = io.Discard
	}
	return stream.Create(cfg.Output, dst)
}

func (r *runner) convert(ctx context.Context, cfg config.Config) (err error) {
	if err := r.setupLogging(cfg); err != nil {
		return err
	}
	log := logger.ChildLogger(logger.ComponentLogger("convert"),
		logger.FieldFile, displayName(cfg.Input, "stdin"))

	opt := sink.Options{Build: cfg.Build, ChrPrefix: cfg.ChrPrefix}
	if cfg.VCFHeader != "" {
		if opt.Template, err = os.ReadFile(cfg.VCFHeader); err != nil {
			return errors.Mark(errors.Wrap(err, "read --vcf-header"), errors.ErrUsage)
		}
	}

	in, err := r.open(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := r.create(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close output")
		}
	}()

	s, err := sink.New(cfg.Format, out, opt)
	if err != nil {
		return err
	}

	log.Infow("conversion started",
		logger.FieldFormat, string(cfg.Format),
		logger.FieldBuild, cfg.Build.String())
	start := time.Now()
	st, err := pipeline.Run(ctx, pipeline.Config{Limit: cfg.Limit}, in,
		extract.NewDispatcher(cfg.Build, extract.DefaultRules()), s)
	elapsed := time.Since(start)
	if err != nil {
		log.Debugw("conversion failed",
			logger.FieldCount, st.Records,
			logger.FieldError, err)
		return err
	}

	log.Infow("conversion finished",
		logger.FieldCount, st.Records,
		logger.FieldEmitted, st.Emitted,
		logger.FieldDropped, st.Dropped,
		logger.FieldDurationMS, elapsed.Milliseconds())
	if !cfg.Quiet {
		_ = report.Write(r.stderr, report.Summary{
			Input:   cfg.Input,
			Output:  cfg.Output,
			Format:  cfg.Format,
			Build:   cfg.Build,
			Records: st.Records,
			Emitted: st.Emitted,
			Dropped: st.Dropped,
			Elapsed: elapsed,
		}, stream.IsTerminal(r.stderr) && !cfg.LogJSON)
	}
	return nil
}

func (r *runner) debug(ctx context.Context, cfg config.Config) (err error) {
	if err := r.setupLogging(cfg); err != nil {
		return err
	}
	in, err := r.open(cfg)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := r.create(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "close output")
		}
	}()

	n, err := pipeline.Dump(ctx, in, "", cfg.Limit, out)
	logger.ComponentLogger("debug").Infow("dump finished", logger.FieldCount, n)
	return err
}

func displayName(path, std string) string {
	if path == "" || path == "-" {
		return std
	}
	return path
}
