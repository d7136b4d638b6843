package config

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	KeyIntakeFormats      = "intake.formats"
	KeyIntakeParseTimeout = "intake.parse_timeout"
	KeyIntakeMaxUploadMB  = "intake.max_upload_mb"
	KeyServePort          = "serve.port"
	KeyServeOpenBrowser   = "serve.open_browser"

	KeyColumnFullName    = "columns.full_name"
	KeyColumnNationalID  = "columns.national_id"
	KeyColumnBirthDate   = "columns.birth_date"
	KeyColumnPhoneNumber = "columns.phone_number"
	KeyColumnPhoto       = "columns.photo"
	KeyColumnRegion      = "columns.region"
	KeyColumnUniversity  = "columns.university"
	KeyColumnRole        = "columns.role"
)

const (
	FormatCSV   = "csv"
	FormatExcel = "excel"
)

type Config struct {
	Intake  IntakeConfig  `mapstructure:"intake"`
	Serve   ServeConfig   `mapstructure:"serve"`
	Columns ColumnsConfig `mapstructure:"columns"`
}

type IntakeConfig struct {
	Formats      []string      `mapstructure:"formats" validate:"required,min=1"`
	ParseTimeout time.Duration `mapstructure:"parse_timeout" validate:"gt=0"`
	MaxUploadMB  int64         `mapstructure:"max_upload_mb" validate:"gt=0"`
}

type ServeConfig struct {
	Port        int  `mapstructure:"port" validate:"min=1,max=65535"`
	OpenBrowser bool `mapstructure:"open_browser"`
}

// ColumnsConfig holds the header labels recognized in uploaded files.
type ColumnsConfig struct {
	FullName    string `mapstructure:"full_name" validate:"required"`
	NationalID  string `mapstructure:"national_id" validate:"required"`
	BirthDate   string `mapstructure:"birth_date" validate:"required"`
	PhoneNumber string `mapstructure:"phone_number" validate:"required"`
	Photo       string `mapstructure:"photo" validate:"required"`
	Region      string `mapstructure:"region" validate:"required"`
	University  string `mapstructure:"university" validate:"required"`
	Role        string `mapstructure:"role" validate:"required"`
}

// DefaultColumns returns the labels used by the member registration sheet.
func DefaultColumns() ColumnsConfig {
	return ColumnsConfig{
		FullName:    "الاسم الرباعي",
		NationalID:  "رقم لهوية",
		BirthDate:   "تاريخ الميلاد",
		PhoneNumber: "رقم الجوال",
		Photo:       "ارفق صورة شخصية",
		Region:      "الإقليم",
		University:  "الجامعة",
		Role:        "صفة المشاركة",
	}
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		Intake: IntakeConfig{
			Formats:      []string{FormatCSV},
			ParseTimeout: 30 * time.Second,
			MaxUploadMB:  32,
		},
		Serve: ServeConfig{
			Port:        8080,
			OpenBrowser: true,
		},
		Columns: DefaultColumns(),
	}
}

// AllowsFormat reports whether the intake accepts the given format.
func (c IntakeConfig) AllowsFormat(format string) bool {
	for _, allowed := range c.Formats {
		if strings.EqualFold(strings.TrimSpace(allowed), format) {
			return true
		}
	}
	return false
}

// SetDefaults sets default values if not provided
func SetDefaults() {
	setDefaults(viper.GetViper())
}

// LoadAndValidate loads config from Viper and validates it
func LoadAndValidate() (*Config, error) {
	return loadAndValidateFromViper(viper.GetViper())
}

// ValidateYAMLContent validates configuration from raw YAML content.
func ValidateYAMLContent(content []byte) (*Config, error) {
	local := viper.New()
	setDefaults(local)
	local.SetConfigType("yaml")
	if err := local.ReadConfig(bytes.NewReader(content)); err != nil {
		return nil, fmt.Errorf("read config content: %w", err)
	}
	return loadAndValidateFromViper(local)
}

// ExampleYAML returns the default configuration template.
func ExampleYAML() string {
	columns := DefaultColumns()
	return fmt.Sprintf(`# memberdir configuration
intake:
  # accepted upload formats: csv, excel
  formats: ["csv"]
  parse_timeout: 30s
  max_upload_mb: 32

serve:
  port: 8080
  open_browser: true

columns:
  full_name: %q
  national_id: %q
  birth_date: %q
  phone_number: %q
  photo: %q
  region: %q
  university: %q
  role: %q
`,
		columns.FullName,
		columns.NationalID,
		columns.BirthDate,
		columns.PhoneNumber,
		columns.Photo,
		columns.Region,
		columns.University,
		columns.Role,
	)
}

func loadAndValidateFromViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}
	if err := validateFormats(cfg.Intake.Formats); err != nil {
		return nil, err
	}
	if err := validateColumns(cfg.Columns); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	defaults := Default()
	v.SetDefault(KeyIntakeFormats, defaults.Intake.Formats)
	v.SetDefault(KeyIntakeParseTimeout, defaults.Intake.ParseTimeout)
	v.SetDefault(KeyIntakeMaxUploadMB, defaults.Intake.MaxUploadMB)
	v.SetDefault(KeyServePort, defaults.Serve.Port)
	v.SetDefault(KeyServeOpenBrowser, defaults.Serve.OpenBrowser)

	v.SetDefault(KeyColumnFullName, defaults.Columns.FullName)
	v.SetDefault(KeyColumnNationalID, defaults.Columns.NationalID)
	v.SetDefault(KeyColumnBirthDate, defaults.Columns.BirthDate)
	v.SetDefault(KeyColumnPhoneNumber, defaults.Columns.PhoneNumber)
	v.SetDefault(KeyColumnPhoto, defaults.Columns.Photo)
	v.SetDefault(KeyColumnRegion, defaults.Columns.Region)
	v.SetDefault(KeyColumnUniversity, defaults.Columns.University)
	v.SetDefault(KeyColumnRole, defaults.Columns.Role)
}

func validateFormats(formats []string) error {
	seen := make(map[string]struct{}, len(formats))
	for i, format := range formats {
		key := strings.ToLower(strings.TrimSpace(format))
		switch key {
		case FormatCSV, FormatExcel:
		default:
			return fmt.Errorf(
				"validation failed: intake.formats[%d] %q is not supported (valid: csv, excel)",
				i,
				format,
			)
		}
		if _, exists := seen[key]; exists {
			return fmt.Errorf("validation failed: duplicate intake format %q", format)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func validateColumns(columns ColumnsConfig) error {
	labels := map[string]string{
		"full_name":    columns.FullName,
		"national_id":  columns.NationalID,
		"birth_date":   columns.BirthDate,
		"phone_number": columns.PhoneNumber,
		"photo":        columns.Photo,
		"region":       columns.Region,
		"university":   columns.University,
		"role":         columns.Role,
	}
	for key, label := range labels {
		if strings.TrimSpace(label) == "" {
			return fmt.Errorf("validation failed: columns.%s must not be blank", key)
		}
	}
	return nil
}
