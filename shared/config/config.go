package config

import (
	"os"
	"path"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

type Config struct {
	Public  Public
	private Private
}

type Public struct {
	ApiURL         string        `yaml:"api_url" validate:"required,url"`
	ImageHost      ImageHost     `yaml:"image_host"`
	SecureCookies  bool          `yaml:"secure_cookies"`
	SessionTTL     time.Duration `yaml:"session_ttl" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"required"`
	LogLevel       string        `yaml:"log_level"`
	LogJSON        bool          `yaml:"log_json"`
	AllowedOrigins []string      `yaml:"allowed_origins"`

	BoardNameMaxLen        int `yaml:"board_name_max_len" validate:"required"`
	BoardDescriptionMaxLen int `yaml:"board_description_max_len" validate:"required"`
	PinTitleMaxLen         int `yaml:"pin_title_max_len" validate:"required"`
	PinDescriptionMaxLen   int `yaml:"pin_description_max_len" validate:"required"`
	MaxTagsPerPin          int `yaml:"max_tags_per_pin" validate:"required"`
	PasswordMinLen         int `yaml:"password_min_len" validate:"required"`

	MaxUploadSize         int64    `yaml:"max_upload_size" validate:"required"`
	MaxImageDimension     int      `yaml:"max_image_dimension" validate:"required"`
	AllowedImageMimeTypes []string `yaml:"allowed_image_mime_types" validate:"required,min=1"`
}

// ImageHost points at the third-party upload endpoint (unsigned preset upload).
type ImageHost struct {
	UploadURL    string `yaml:"upload_url" validate:"required,url"`
	UploadPreset string `yaml:"upload_preset" validate:"required"`
}

type Private struct {
	CSRFKey string `yaml:"csrf_key" validate:"required,min=16,max=64"`
}

func (s *Config) CSRFKey() []byte {
	return []byte(s.private.CSRFKey)
}

func mustLoadPath(configPath string, output interface{}) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		panic("config file does not exist: " + configPath)
	}
	configFile, err := os.ReadFile(configPath)
	if err != nil {
		panic("can't read config file")
	}

	if err := yaml.Unmarshal(configFile, output); err != nil {
		panic("can't unmarshal config file: " + err.Error())
	}
}

// applyEnv lets deployments override values without editing the files.
func applyEnv(public *Public, private *Private) {
	if v := os.Getenv("API_URL"); v != "" {
		public.ApiURL = v
	}
	if v := os.Getenv("IMAGE_UPLOAD_URL"); v != "" {
		public.ImageHost.UploadURL = v
	}
	if v := os.Getenv("CSRF_KEY"); v != "" {
		private.CSRFKey = v
	}
}

func MustLoad(configFolder string) *Config {
	var public Public
	mustLoadPath(path.Join(configFolder, "public.yaml"), &public)

	var private Private
	mustLoadPath(path.Join(configFolder, "private.yaml"), &private)

	applyEnv(&public, &private)

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := validate.Struct(public); err != nil {
		panic("invalid public config: " + err.Error())
	}
	if err := validate.Struct(private); err != nil {
		panic("invalid private config: " + err.Error())
	}

	return &Config{public, private}
}
