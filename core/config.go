package core

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/gobuffalo/envy"
	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Configuration keys read from the environment
const (
	KeyFPS            = "KORUFX_FPS"
	KeyEventPollDelay = "KORUFX_EVENT_POLL_DELAY"
	KeyWidth          = "KORUFX_WIDTH"
	KeyHeight         = "KORUFX_HEIGHT"
	KeyTitle          = "KORUFX_TITLE"
	KeyGLDebug        = "KORUFX_GL_DEBUG"
	KeyVSync          = "KORUFX_VSYNC"
	KeyAssets         = "KORUFX_ASSETS"
	KeyPipeline       = "KORUFX_PIPELINE"
	KeyModel          = "KORUFX_MODEL"
	KeyLogLevel       = "KORUFX_LOG_LEVEL"
)

// Configuration defines a global engine configuration setting
type Configuration struct {
	Time     TimeConfiguration
	Renderer RendererConfiguration
	Assets   AssetConfiguration
	Log      LogConfiguration
}

// TimeConfiguration is used to configure time services
type TimeConfiguration struct {
	// FramesPerSecond caps frames per second that is put out
	// To unlimit, set to 0
	FramesPerSecond int

	// EventPollDelay is the interval of the event loop in milliseconds
	EventPollDelay int
}

// RendererConfiguration is used to configure the renderer
type RendererConfiguration struct {
	ScreenWidth  int
	ScreenHeight int
	Title        string

	// Debug routes driver debug output to the log
	Debug bool
	VSync bool
}

// AssetConfiguration says where assets are read from
type AssetConfiguration struct {
	// Path is a directory or a .kar archive. Empty selects the
	// assets embedded in the binary
	Path     string
	Pipeline string
	Model    string
}

// LogConfiguration is used to configure logging
type LogConfiguration struct {
	Level log.Level
}

// Apply sets the level and formatter of logger.
func (c LogConfiguration) Apply(logger *log.Logger) {
	logger.SetLevel(c.Level)
	logger.SetFormatter(&log.TextFormatter{FullTimestamp: true})
}

// LoadConfiguration reads the configuration from the environment after
// loading files into it. Without files a .env file in the working
// directory is loaded if there is one. Variables already set in the
// environment take precedence over the files.
func LoadConfiguration(files ...string) (Configuration, error) {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Configuration{}, fmt.Errorf("load .env: %w", err)
		}
	} else if err := godotenv.Load(files...); err != nil {
		return Configuration{}, fmt.Errorf("load configuration: %w", err)
	}
	envy.Reload()

	p := parser{}
	cfg := Configuration{
		Time: TimeConfiguration{
			FramesPerSecond: p.intValue(KeyFPS, 60, 0),
			EventPollDelay:  p.intValue(KeyEventPollDelay, 10, 1),
		},
		Renderer: RendererConfiguration{
			ScreenWidth:  p.intValue(KeyWidth, 800, 1),
			ScreenHeight: p.intValue(KeyHeight, 600, 1),
			Title:        envy.Get(KeyTitle, "korufx"),
			Debug:        p.boolValue(KeyGLDebug, true),
			VSync:        p.boolValue(KeyVSync, true),
		},
		Assets: AssetConfiguration{
			Path:     envy.Get(KeyAssets, ""),
			Pipeline: envy.Get(KeyPipeline, "pipeline.yaml"),
			Model:    envy.Get(KeyModel, "cube.dae"),
		},
		Log: LogConfiguration{
			Level: p.levelValue(KeyLogLevel, log.InfoLevel),
		},
	}
	if p.err != nil {
		return Configuration{}, p.err
	}
	return cfg, nil
}

// parser keeps the first error of a series of lookups.
type parser struct {
	err error
}

func (p *parser) fail(key, value string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("configuration %s=%q: %w", key, value, err)
	}
}

func (p *parser) intValue(key string, def, least int) int {
	raw := envy.Get(key, "")
	if raw == "" {
		return def
	}
	num, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	if num < least {
		p.fail(key, raw, fmt.Errorf("must be at least %d", least))
		return def
	}
	return num
}

func (p *parser) boolValue(key string, def bool) bool {
	raw := envy.Get(key, "")
	if raw == "" {
		return def
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return b
}

func (p *parser) levelValue(key string, def log.Level) log.Level {
	raw := envy.Get(key, "")
	if raw == "" {
		return def
	}
	level, err := log.ParseLevel(raw)
	if err != nil {
		p.fail(key, raw, err)
		return def
	}
	return level
}
