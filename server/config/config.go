package config

import (
	"bytes"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

var (
	ErrInvalid = errors.New("invalid config")
)

// Options defines a set of config options.
type Options struct {
	ContentDir     string        `yaml:"content_dir"`
	MetadataFile   string        `yaml:"metadata_file"`
	ServerAddr     string        `yaml:"server_addr"`
	MaxUploadBytes int64         `yaml:"max_upload_bytes"`
	Quiet          bool          `yaml:"quiet"`
	LogFormat      string        `yaml:"log_format"`
	CORSOrigins    []string      `yaml:"cors_origins"`
	StagingMaxAge  time.Duration `yaml:"staging_max_age"`
	SweepInterval  time.Duration `yaml:"sweep_interval"`
	AuditDebounce  time.Duration `yaml:"audit_debounce"`
	TraceStdout    bool          `yaml:"trace_stdout"`
}

func Default() *Options {
	return &Options{
		ContentDir:     "./content",
		MetadataFile:   "./data/image-metadata.json",
		ServerAddr:     "0.0.0.0:8090",
		MaxUploadBytes: 10_000_000,
		LogFormat:      LogFormatText,
		StagingMaxAge:  time.Hour,
		SweepInterval:  10 * time.Minute,
		AuditDebounce:  500 * time.Millisecond,
	}
}

// Load reads a YAML config file on top of the defaults. Unknown keys are rejected.
func Load(path string) (*Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	opts := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	err = dec.Decode(opts)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("parse config file %q: %w", path, err)
	}

	return opts, nil
}

// Parse builds the options from command line arguments. Precedence is defaults, then the YAML file given with
// -config, then flags that were set explicitly.
func Parse(name string, args []string, output io.Writer) (*Options, error) {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(output)
	configPath := fs.String("config", "", "Path to a YAML config file")
	Default().bind(fs)

	err := fs.Parse(args)
	if err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrInvalid, fs.Args())
	}

	opts := Default()
	if *configPath != "" {
		opts, err = Load(*configPath)
		if err != nil {
			return nil, err
		}
	}

	// replay explicitly set flags onto the loaded options
	target := flag.NewFlagSet(name, flag.ContinueOnError)
	target.SetOutput(io.Discard)
	opts.bind(target)
	var errs []error
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "config" {
			return
		}
		errs = append(errs, target.Set(f.Name, f.Value.String()))
	})
	err = errors.Join(errs...)
	if err != nil {
		return nil, fmt.Errorf("apply flags: %w", err)
	}

	err = opts.Validate()
	if err != nil {
		return nil, err
	}

	return opts, nil
}

func (o *Options) bind(fs *flag.FlagSet) {
	fs.StringVar(&o.ContentDir, "content-dir", o.ContentDir, "Directory to store uploaded assets in")
	fs.StringVar(&o.MetadataFile, "metadata-file", o.MetadataFile, "Path of the metadata journal document; must be outside the content dir")
	fs.StringVar(&o.ServerAddr, "server-addr", o.ServerAddr, "Server address to listen on")
	fs.Int64Var(&o.MaxUploadBytes, "max-upload-bytes", o.MaxUploadBytes, "Maximum size of an upload request in bytes")
	fs.BoolVar(&o.Quiet, "quiet", o.Quiet, "Quiet output")
	fs.StringVar(&o.LogFormat, "log-format", o.LogFormat, "Log format, text or json")
	fs.Var((*stringList)(&o.CORSOrigins), "cors-origins", "Comma separated list of origins allowed to call the API, * for any")
	fs.DurationVar(&o.StagingMaxAge, "staging-max-age", o.StagingMaxAge, "Age after which unfinished uploads are swept")
	fs.DurationVar(&o.SweepInterval, "sweep-interval", o.SweepInterval, "Interval between staging sweeps")
	fs.DurationVar(&o.AuditDebounce, "audit-debounce", o.AuditDebounce, "Quiet period before re-auditing after a filesystem change")
	fs.BoolVar(&o.TraceStdout, "trace-stdout", o.TraceStdout, "Print trace spans to stdout")
}

// Validate checks the options for consistency.
func (o *Options) Validate() error {
	var errs []error
	if o.ContentDir == "" {
		errs = append(errs, errors.New("content dir is required"))
	}
	if o.MetadataFile == "" {
		errs = append(errs, errors.New("metadata file is required"))
	}
	if o.ServerAddr == "" {
		errs = append(errs, errors.New("server addr is required"))
	}
	if o.MaxUploadBytes <= 0 {
		errs = append(errs, fmt.Errorf("max upload bytes must be positive, got %d", o.MaxUploadBytes))
	}
	if !slices.Contains([]string{LogFormatText, LogFormatJSON}, o.LogFormat) {
		errs = append(errs, fmt.Errorf("unknown log format %q", o.LogFormat))
	}
	if o.StagingMaxAge <= 0 || o.SweepInterval <= 0 || o.AuditDebounce <= 0 {
		errs = append(errs, errors.New("durations must be positive"))
	}
	if o.ContentDir != "" && o.MetadataFile != "" {
		inside, err := within(o.ContentDir, o.MetadataFile)
		if err != nil {
			errs = append(errs, err)
		} else if inside {
			errs = append(errs, fmt.Errorf("metadata file %q must not be inside the content dir %q", o.MetadataFile, o.ContentDir))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrInvalid, errors.Join(errs...))
	}
	return nil
}

func within(dir, path string) (bool, error) {
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", dir, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		return false, fmt.Errorf("resolve %q: %w", path, err)
	}
	rel, err := filepath.Rel(absDir, absPath)
	if err != nil {
		return false, nil
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator))), nil
}

type stringList []string

func (l *stringList) String() string {
	if l == nil {
		return ""
	}
	return strings.Join(*l, ",")
}

func (l *stringList) Set(v string) error {
	*l = nil
	for item := range strings.SplitSeq(v, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			*l = append(*l, item)
		}
	}
	return nil
}
