// fatrecov scans a FAT32 image for directory entries of deleted bitmaps and prints
// "<hash>  <name>" for every file it could recover.
//
//	fatrecov [flags] <image>
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aligator/fatrecov"
	"github.com/aligator/fatrecov/checkpoint"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Exit codes of the process.
const (
	exitOK = iota
	exitUsage
	exitConfig
	_
	exitOpen
	exitSize
	exitMap
	exitFormat
	exitMismatch
)

// exitError terminates the process with code.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	return e.err.Error()
}

func (e *exitError) Unwrap() error {
	return e.err
}

func usageError(err error) *exitError {
	return &exitError{code: exitUsage, err: err}
}

func configError(err error) *exitError {
	return &exitError{code: exitConfig, err: err}
}

// loadError maps the errors of fatrecov.Open to their exit codes.
func loadError(err error) error {
	code := exitFormat
	switch {
	case errors.Is(err, fatrecov.ErrOpenImage):
		code = exitOpen
	case errors.Is(err, fatrecov.ErrImageSize):
		code = exitSize
	case errors.Is(err, fatrecov.ErrMapImage):
		code = exitMap
	case errors.Is(err, fatrecov.ErrSizeMismatch):
		code = exitMismatch
	}
	return &exitError{code: code, err: err}
}

type options struct {
	config    string
	hash      string
	outputDir string
	tmpDir    string
	maxSize   string
	verbose   int
	quiet     bool
}

func newRootCmd(fs afero.Fs, stdout, stderr io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "fatrecov [flags] <image>",
		Short: "Recover deleted bitmaps from a FAT32 image",
		Long: `fatrecov scans every cluster of a raw FAT32 image for directory entries
of deleted files. Their long names are rebuilt, even if the entries are split
across clusters, and every entry pointing to a bitmap is reported as
"<hash>  <name>" on stdout.`,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) != 1 {
				return usageError(fmt.Errorf("expected exactly one image, got %d arguments", len(args)))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, fs, stdout, stderr, opts, args[0])
		},
	}

	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	flags := cmd.Flags()
	flags.StringVar(&opts.config, "config", "", "ini configuration file")
	flags.StringVar(&opts.hash, "hash", fatrecov.DefaultHashAlgorithm, "hash algorithm: sha1|sha256|sha512")
	flags.StringVar(&opts.outputDir, "output-dir", "", "keep the recovered files in this directory")
	flags.StringVar(&opts.tmpDir, "tmp-dir", "", "directory for temporary files")
	flags.StringVar(&opts.maxSize, "max-size", "64M", "largest plausible file size (e.g. 512K, 64M)")
	flags.CountVarP(&opts.verbose, "verbose", "v", "increase verbosity (-v info, -vv debug, -vvv trace)")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "do not log anything")

	return cmd
}

// merge applies the configuration file to every flag which was not set explicitly.
func merge(cmd *cobra.Command, fs afero.Fs, opts *options) error {
	if opts.config == "" {
		return nil
	}

	config, err := fatrecov.LoadConfig(fs, opts.config)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if !flags.Changed("hash") {
		opts.hash = config.GetHashConfig().Algorithm
	}

	output := config.GetOutputConfig()
	if !flags.Changed("output-dir") {
		opts.outputDir = output.Dir
	}
	if !flags.Changed("tmp-dir") {
		opts.tmpDir = output.TempDir
	}

	if !flags.Changed("max-size") {
		opts.maxSize = config.GetScanConfig().MaxFileSize
	}
	if !flags.Changed("verbose") && !opts.quiet {
		opts.verbose = config.GetLogConfig().Level
	}
	return nil
}

func runScan(cmd *cobra.Command, fs afero.Fs, stdout, stderr io.Writer, opts options, image string) error {
	if err := merge(cmd, fs, &opts); err != nil {
		return configError(err)
	}
	if err := fatrecov.SetupLogging(stderr, opts.quiet, opts.verbose); err != nil {
		return configError(err)
	}

	algorithm, err := fatrecov.GetHashAlgorithm(opts.hash)
	if err != nil {
		return configError(err)
	}
	maxSize, err := fatrecov.ParseMaxFileSize(opts.maxSize)
	if err != nil {
		return configError(err)
	}

	volume, err := fatrecov.Open(fs, image)
	if err != nil {
		return loadError(err)
	}
	defer func() {
		if err := volume.Close(); err != nil {
			log.Warnf("could not release the image: %v", checkpoint.Message(err))
		}
	}()

	geometry := volume.Geometry()
	log.Debugf("%s: %d clusters of %d bytes, data region at 0x%x", image, geometry.ClusterCount, geometry.ClusterSize, geometry.DataStart())

	sink := fatrecov.NewHashSink(fs, stdout, algorithm, fatrecov.HashSinkOptions{
		TempDir:   opts.tmpDir,
		OutputDir: opts.outputDir,
	})
	stats := fatrecov.NewScanner(volume, sink, fatrecov.Options{MaxFileSize: maxSize}).Run()

	log.Infof("scanned %d clusters (%d directory-like)", stats.Clusters, stats.DirectoryClusters)
	log.Infof("extracted %d entry groups, joined %d of %d split fragments", stats.Groups, stats.Resolved, stats.Tails)
	log.Infof("recovered %d files, dropped %d", stats.Recovered, stats.Dropped)
	return nil
}

// run executes the command line and returns the exit code.
func run(args []string, fs afero.Fs, stdout, stderr io.Writer) int {
	if args == nil {
		// cobra falls back to os.Args otherwise.
		args = []string{}
	}

	cmd := newRootCmd(fs, stdout, stderr)
	cmd.SetArgs(args)

	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var exitErr *exitError
	if !errors.As(err, &exitErr) {
		// Unknown flags and similar errors of cobra itself.
		exitErr = usageError(err)
	}

	fmt.Fprintf(stderr, "fatrecov: %s\n", checkpoint.Message(exitErr.err))
	log.Debugf("%+v", exitErr.err)
	return exitErr.code
}

func main() {
	os.Exit(run(os.Args[1:], afero.NewOsFs(), os.Stdout, os.Stderr))
}
