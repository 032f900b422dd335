package compile

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"extlint/config"
	"extlint/scss"
	"extlint/state"
	"extlint/track"
)

// Run is the "compile" subcommand action.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("compile")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no input source has been specified")
	}
	src, err = filepath.Abs(src)
	if err != nil {
		return err
	}

	dst := cmd.Args().Get(1)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 2 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[2:]))
	}

	env.NoDirs, env.Overwrite = cmd.Bool("nodirs"), cmd.Bool("overwrite")
	if cmd.Bool("report") {
		// command line wins over configuration
		env.Cfg.Compile.DebugReport = true
	}

	log.Info("Processing starting", zap.String("source", src), zap.String("destination", dst))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	return process(ctx, src, dst, log)
}

// process determines the input type (directory or single file) and compiles
// accordingly.
func process(ctx context.Context, src, dst string, log *zap.Logger) error {
	fi, err := os.Stat(src)
	if err != nil {
		return fmt.Errorf("input source was not found (%s): %w", src, err)
	}

	if fi.Mode().IsDir() {
		return processDir(ctx, src, dst, log)
	}
	if !fi.Mode().IsRegular() {
		return fmt.Errorf("unexpected path mode for (%s)", src)
	}
	return processFile(ctx, src, filepath.Base(src), dst, log)
}

// processDir walks the directory tree compiling every stylesheet found.
// Failures are reported per file and do not stop the walk - each file is its
// own compilation unit.
func processDir(ctx context.Context, dir, dst string, log *zap.Logger) error {
	var errs error
	count := 0

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err != nil {
			log.Warn("Skipping path", zap.String("path", path), zap.Error(err))
			return nil
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		if ext := strings.ToLower(filepath.Ext(path)); ext != ".scss" {
			log.Debug("Skipping file, not recognized as stylesheet", zap.String("file", path))
			return nil
		}

		count++

		rel := strings.TrimPrefix(strings.TrimPrefix(path, dir), string(filepath.Separator))
		if err := processFile(ctx, path, rel, dst, log); err != nil {
			log.Error("Unable to process file", zap.String("file", path), zap.Error(err))
			errs = multierr.Append(errs, err)
		}
		return nil
	})
	if err != nil {
		return err
	}
	if count == 0 {
		log.Debug("Nothing to process", zap.String("dir", dir))
	}
	return errs
}

// processFile compiles a single stylesheet. "src" is the path relative to the
// original source (base name for single files) and determines output layout,
// "dst" is the destination directory.
func processFile(ctx context.Context, path, src, dst string, log *zap.Logger) error {
	env := state.EnvFromContext(ctx)

	var outputName string

	log.Info("Compilation starting", zap.String("from", src))
	defer func(start time.Time) {
		log.Info("Compilation completed", zap.Duration("elapsed", time.Since(start)), zap.String("to", outputName))
	}(time.Now())

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read stylesheet source (%s): %w", src, err)
	}

	tracker, err := track.NewTracker(env.Cfg.Budgets, env.Cfg.Options, log)
	if err != nil {
		return fmt.Errorf("unable to prepare usage tracking: %w", err)
	}

	sheet := scss.NewParser(log).Parse(data, src)
	for _, w := range sheet.Warnings {
		log.Warn("Stylesheet warning", zap.String("source", src), zap.String("warning", w))
	}

	comp := New(tracker, log)
	comp.DebugReport = env.Cfg.Compile.DebugReport
	if f := env.Cfg.Compile.ReportFilter; len(f) > 0 {
		comp.ReportFilter = f
	}

	out, err := comp.Compile(sheet)
	if err != nil {
		return fmt.Errorf("unable to compile (%s): %w", src, err)
	}

	outputName = buildOutputPath(src, dst, env.NoDirs)

	// check if output file already exists
	if _, err := os.Stat(outputName); err == nil {
		if !env.Overwrite {
			return fmt.Errorf("output file already exists: %s", outputName)
		}
		log.Warn("Overwriting existing file", zap.String("file", outputName))
	} else if !os.IsNotExist(err) {
		return err
	} else if err := os.MkdirAll(filepath.Dir(outputName), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	if err := os.WriteFile(outputName, []byte(out), 0644); err != nil {
		return fmt.Errorf("unable to write output: %w", err)
	}

	// store compilation artifacts for debugging
	if env.Rpt != nil {
		env.Rpt.StoreData("source/"+filepath.ToSlash(src), data)
		env.Rpt.StoreData("parse/"+filepath.ToSlash(src)+".txt", []byte(sheet.String()))
		if report, err := tracker.RenderDebug("all"); err == nil {
			env.Rpt.StoreData("usage/"+filepath.ToSlash(src)+".txt", []byte(report))
		}
		env.Rpt.Store("result/"+filepath.Base(outputName), outputName)
	}

	if n := len(tracker.Diagnostics()); n > 0 {
		log.Info("Compilation produced warnings", zap.String("source", src), zap.Int("warnings", n))
	}
	return nil
}

// buildOutputPath derives the output file name: source name with a .css
// extension, keeping the relative directory layout unless nodirs is set.
func buildOutputPath(src, dst string, nodirs bool) string {
	name := config.CleanFileName(strings.TrimSuffix(filepath.Base(src), filepath.Ext(src)) + ".css")
	if nodirs {
		return filepath.Join(dst, name)
	}
	return filepath.Join(dst, filepath.Dir(src), name)
}
