package config

import (
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"strings"
	"time"

	"github.com/creasty/defaults"
	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pkg/errors"
)

const (
	configFileENV     = "CONFIG_FILE"
	defaultConfigFile = "./config.yaml"
)

type Config struct {
	Environment string `koanf:"environment" default:"development"`
	Hostname    string `koanf:"-"`
	ServerHost  string `koanf:"server_host" default:"127.0.0.1"`
	ServerPort  int    `koanf:"server_port" default:"3620"`

	DatabaseFilePath          string        `koanf:"database_file_path" validate:"required"`
	DatabaseDebug             bool          `koanf:"database_debug"`
	DatabaseMaxRetries        int           `koanf:"database_max_retries" default:"5"`
	DatabaseBusyTimeout       time.Duration `koanf:"database_busy_timeout" default:"5s"`
	DatabaseConnectRetryCount int           `koanf:"database_connect_retry_count" default:"5"`
	DatabaseConnectRetryDelay time.Duration `koanf:"database_connect_retry_delay" default:"2s"`

	// JWTSecret must match the signing secret of the identity provider that
	// issues session tokens. This service only validates tokens; it never
	// issues them.
	JWTSecret string `koanf:"jwt_secret" validate:"required"`

	MangaDexBaseURL      string `koanf:"mangadex_base_url" default:"https://api.mangadex.org"`
	MangaDexCoverBaseURL string `koanf:"mangadex_cover_base_url" default:"https://uploads.mangadex.org"`
	LerMangaBaseURL      string `koanf:"lermanga_base_url" default:"http://localhost:8000"`

	// Image domains the proxy is allowed to fetch from, per source. Chapter
	// pages are served from hosts the upstream picks at request time (the
	// at-home network for MangaDex, the scraped site's image CDN for
	// LerManga), so these are broader than the base URLs above.
	MangaDexImageDomains []string `koanf:"mangadex_image_domains" default:"[\"mangadex.org\",\"mangadex.network\"]"`
	LerMangaImageDomains []string `koanf:"lermanga_image_domains" default:"[\"lermanga.org\"]"`

	// ChapterLanguage constrains every chapter listing and the
	// availableTranslatedLanguage filter on catalog queries.
	ChapterLanguage string `koanf:"chapter_language" default:"pt-br"`

	UpstreamTimeout      time.Duration `koanf:"upstream_timeout" default:"60s"`
	ArchiveRetryAttempts uint          `koanf:"archive_retry_attempts" default:"3"`
	ArchiveRetryDelay    time.Duration `koanf:"archive_retry_delay" default:"2s"`
}

// New loads the config from defaults, then the yaml config file (CONFIG_FILE,
// falling back to ./config.yaml), then environment variables. Env vars use the
// uppercased koanf key (e.g. database_file_path -> DATABASE_FILE_PATH).
func New() (*Config, error) {
	hostname, err := os.Hostname()
	if err != nil {
		return nil, errors.WithStack(err)
	}

	cfg := &Config{Hostname: hostname}
	if err := defaults.Set(cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	k := koanf.New(".")

	configFile := os.Getenv(configFileENV)
	if configFile == "" {
		configFile = defaultConfigFile
	}
	err = k.Load(file.Provider(configFile), yaml.Parser())
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrapf(err, "failed to load config file %s", configFile)
	}

	keys := configKeys()
	err = k.Load(env.Provider("", ".", func(s string) string {
		key := strings.ToLower(s)
		if _, ok := keys[key]; ok {
			return key
		}
		return ""
	}), nil)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, errors.WithStack(err)
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

// configKeys returns the set of koanf keys declared on Config so that only
// matching environment variables are loaded.
func configKeys() map[string]struct{} {
	keys := map[string]struct{}{}
	t := reflect.TypeOf(Config{})
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("koanf")
		if tag == "" || tag == "-" {
			continue
		}
		keys[tag] = struct{}{}
	}
	return keys
}

func validate(cfg *Config) error {
	err := validator.New().Struct(cfg)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.WithStack(err)
	}

	missing := make([]string, 0, len(verrs))
	for _, verr := range verrs {
		field, _ := reflect.TypeOf(Config{}).FieldByName(verr.StructField())
		key := field.Tag.Get("koanf")
		missing = append(missing, fmt.Sprintf("%s (%s)", strings.ToUpper(key), key))
	}

	return errors.Errorf("missing required config: %s", strings.Join(missing, ", "))
}
