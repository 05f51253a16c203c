package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"time"

	"timeline-media/internal/media"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// Build-time variables (injected via -ldflags)
var (
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
	GoVersion = runtime.Version()
)

// BuildInfo contains version and build information
type BuildInfo struct {
	Version   string `json:"version"`
	Commit    string `json:"commit"`
	BuildTime string `json:"buildTime"`
	GoVersion string `json:"goVersion"`
	OS        string `json:"os"`
	Arch      string `json:"arch"`
}

// GetBuildInfo returns the current build information
func GetBuildInfo() BuildInfo {
	return BuildInfo{
		Version:   Version,
		Commit:    Commit,
		BuildTime: BuildTime,
		GoVersion: GoVersion,
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
}

// Config holds all build configuration.
type Config struct {
	ContentDir     string `yaml:"content_dir" env:"CONTENT_DIR" env-default:"content/timeline" validate:"required"`
	DestDir        string `yaml:"dest_dir" env:"DEST_DIR" env-default:"build/img/auto" validate:"required"`
	DestDirClient  string `yaml:"dest_dir_client" env:"DEST_DIR_CLIENT" env-default:"/img/auto"`
	ReferencedOnly bool   `yaml:"referenced_only" env:"REFERENCED_ONLY" env-default:"true"`
	DataFile       string `yaml:"data_file" env:"DATA_FILE" env-default:"docs/data.json"`
	WatermarkPath  string `yaml:"watermark" env:"WATERMARK_PATH"`
	Source         string `yaml:"source" env:"SOURCE"`

	MaxConcurrent int `yaml:"max_concurrent" env:"MAX_CONCURRENT_IMAGE_PROCESSES" env-default:"1" validate:"gte=0"`
	ThumbnailSize int `yaml:"thumbnail_size" env:"MAX_THUMBNAIL_SIZE_PX" env-default:"256" validate:"gt=0"`
	PictureSize   int `yaml:"picture_size" env:"MAX_PICTURE_SIZE_PX" env-default:"1024" validate:"gt=0"`
	PanoramaSize  int `yaml:"panorama_size" env:"MAX_PANORAMA_SIZE_PX" env-default:"1024" validate:"gt=0"`
	JPEGQuality   int `yaml:"jpeg_quality" env:"JPEG_QUALITY" env-default:"90" validate:"min=1,max=100"`
	UseVips       bool `yaml:"use_vips" env:"USE_VIPS" env-default:"true"`

	FetchTimeout time.Duration `yaml:"fetch_timeout" env:"FETCH_TIMEOUT" env-default:"20s" validate:"gt=0"`
	FetchRate    float64       `yaml:"fetch_rate" env:"FETCH_RATE" env-default:"4" validate:"gte=0"`

	WatchDebounce time.Duration `yaml:"watch_debounce" env:"WATCH_DEBOUNCE" env-default:"500ms" validate:"gt=0"`

	MetricsFile string  `yaml:"metrics_file" env:"METRICS_FILE"`
	MemoryLimit int64   `yaml:"memory_limit" env:"MEMORY_LIMIT" env-default:"0" validate:"gte=0"`
	MemoryRatio float64 `yaml:"memory_ratio" env:"MEMORY_RATIO" env-default:"0.85" validate:"gt=0,lte=1"`
}

var validate = validator.New()

// Load reads configuration from the YAML file at path, when given, and
// then from the environment. Environment variables win over the file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	var err error
	if path != "" {
		err = cleanenv.ReadConfig(path, cfg)
		if err == nil {
			err = keepFileZeros(path, cfg)
		}
	} else {
		err = cleanenv.ReadEnv(cfg)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	return cfg, nil
}

// keepFileZeros restores zero values set explicitly in a YAML file, such as
// "use_vips: false". cleanenv fills every zero field from env-default, so
// without this the file could never turn a default-true option off.
// Environment variables still win.
func keepFileZeros(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
	default:
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	var keys map[string]interface{}
	if err := cleanenv.ParseYAML(bytes.NewReader(data), &keys); err != nil {
		return err
	}
	file := &Config{}
	if err := cleanenv.ParseYAML(bytes.NewReader(data), file); err != nil {
		return err
	}

	fromFile := reflect.ValueOf(file).Elem()
	out := reflect.ValueOf(cfg).Elem()
	typ := out.Type()
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		key, _, _ := strings.Cut(field.Tag.Get("yaml"), ",")
		if _, ok := keys[key]; !ok || !fromFile.Field(i).IsZero() || envSet(field.Tag.Get("env")) {
			continue
		}
		out.Field(i).Set(fromFile.Field(i))
	}
	return nil
}

func envSet(names string) bool {
	for _, name := range strings.Split(names, ",") {
		if _, ok := os.LookupEnv(name); ok && name != "" {
			return true
		}
	}
	return false
}

// Validate checks field constraints and reports every violation at once.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s must satisfy %s=%s (got %v)", fe.Field(), fe.Tag(), fe.Param(), fe.Value()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s is %s", fe.Field(), fe.Tag()))
		}
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(msgs, "; "))
}

// Limits returns the image size limits.
func (c *Config) Limits() media.Limits {
	return media.Limits{
		ThumbnailSize: c.ThumbnailSize,
		PictureSize:   c.PictureSize,
		PanoramaSize:  c.PanoramaSize,
		JPEGQuality:   c.JPEGQuality,
	}
}

// Absolutize rewrites the local paths as absolute paths. DestDirClient is
// a client URL prefix and left alone.
func (c *Config) Absolutize() error {
	for _, p := range []*string{&c.ContentDir, &c.DestDir, &c.DataFile, &c.WatermarkPath, &c.MetricsFile} {
		if *p == "" {
			continue
		}
		abs, err := filepath.Abs(*p)
		if err != nil {
			return fmt.Errorf("failed to resolve path %s: %w", *p, err)
		}
		*p = abs
	}
	return nil
}
