// Package nexus loads configuration structs from the environment, an
// optional env or yaml file and custom sources, then validates them.
package nexus

import (
	"context"
	"fmt"
	"os"
	"reflect"
	"sort"
	"strings"

	"dario.cat/mergo"
	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
)

// ConfigError tags a load failure with the stage that produced it.
type ConfigError struct {
	Code    string
	Message string
	Cause   error
}

func (e ConfigError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e ConfigError) Unwrap() error {
	return e.Cause
}

const (
	ErrCodeInvalidType   = "CONFIG_INVALID_TYPE"
	ErrCodeFileNotFound  = "CONFIG_FILE_NOT_FOUND"
	ErrCodeValidation    = "CONFIG_VALIDATION_FAILED"
	ErrCodeEnvironment   = "CONFIG_ENV_READ_FAILED"
	ErrCodeMerge         = "CONFIG_MERGE_FAILED"
	ErrCodeSourceFailed  = "CONFIG_SOURCE_FAILED"
	ErrCodeSecurityCheck = "CONFIG_SECURITY_CHECK_FAILED"
)

// Source is an extra configuration provider applied after the environment
// and file. Higher priorities run first.
type Source interface {
	Load(ctx context.Context, target interface{}) error
	Name() string
	Priority() int
}

type Validator interface {
	Validate(ctx context.Context, cfg interface{}) error
}

// SecurityChecker rejects configs that carry obviously unsafe secrets.
type SecurityChecker interface {
	CheckSecurity(ctx context.Context, cfg interface{}) error
}

type options struct {
	defaultFileName string
	fileEnv         string
	fileName        string
	onlyEnvironment bool
	validator       Validator
	securityChecker SecurityChecker
	sources         []Source
}

// Loader reads a configuration struct tagged for cleanenv.
type Loader struct {
	opts options
}

type LoaderOption func(*options)

// WithDefaultFileName sets the file read when present and no other file is named.
func WithDefaultFileName(fileName string) LoaderOption {
	return func(o *options) { o.defaultFileName = fileName }
}

// WithFileEnv names the environment variable holding the config file path.
func WithFileEnv(name string) LoaderOption {
	return func(o *options) {
		o.fileEnv = name
		o.fileName = ""
	}
}

// WithFileName reads fileName, which must exist.
func WithFileName(fileName string) LoaderOption {
	return func(o *options) {
		o.fileName = fileName
		o.fileEnv = ""
	}
}

// WithOnlyEnvironment skips every file.
func WithOnlyEnvironment() LoaderOption {
	return func(o *options) {
		o.onlyEnvironment = true
		o.fileEnv = ""
		o.fileName = ""
	}
}

func WithValidator(v Validator) LoaderOption {
	return func(o *options) { o.validator = v }
}

func WithSecurityChecker(sc SecurityChecker) LoaderOption {
	return func(o *options) { o.securityChecker = sc }
}

func WithSources(sources ...Source) LoaderOption {
	return func(o *options) { o.sources = append(o.sources, sources...) }
}

// NewLoader reads the environment, then CONFIG_FILE or .env when present.
func NewLoader(opts ...LoaderOption) *Loader {
	o := options{
		defaultFileName: ".env",
		fileEnv:         "CONFIG_FILE",
		validator:       &DefaultValidator{},
		securityChecker: &DefaultSecurityChecker{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Loader{opts: o}
}

func (l *Loader) Load(cfg interface{}) error {
	return l.LoadWithContext(context.Background(), cfg)
}

// LoadWithContext fills cfg and runs the security and validation checks.
// Environment variables win over file values.
func (l *Loader) LoadWithContext(ctx context.Context, cfg interface{}) error {
	if v := reflect.ValueOf(cfg); v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return &ConfigError{
			Code:    ErrCodeInvalidType,
			Message: fmt.Sprintf("configuration must be a pointer to struct, got %T", cfg),
		}
	}

	if err := cleanenv.ReadEnv(cfg); err != nil {
		return &ConfigError{Code: ErrCodeEnvironment, Message: "failed to read environment variables", Cause: err}
	}

	if !l.opts.onlyEnvironment {
		if fileName := l.resolveFileName(); fileName != "" {
			if err := l.loadFile(cfg, fileName); err != nil {
				return err
			}
		}
	}

	if err := l.loadSources(ctx, cfg); err != nil {
		return err
	}

	if err := l.opts.securityChecker.CheckSecurity(ctx, cfg); err != nil {
		return &ConfigError{Code: ErrCodeSecurityCheck, Message: "security validation failed", Cause: err}
	}
	if err := l.opts.validator.Validate(ctx, cfg); err != nil {
		return &ConfigError{Code: ErrCodeValidation, Message: "configuration validation failed", Cause: err}
	}
	return nil
}

// loadFile reads fileName into a fresh copy, which cleanenv overlays with
// the environment, and merges the non-zero values into cfg.
func (l *Loader) loadFile(cfg interface{}, fileName string) error {
	fileCfg := reflect.New(reflect.ValueOf(cfg).Elem().Type()).Interface()
	if err := cleanenv.ReadConfig(fileName, fileCfg); err != nil {
		return &ConfigError{
			Code:    ErrCodeFileNotFound,
			Message: fmt.Sprintf("failed to read configuration file %s", fileName),
			Cause:   err,
		}
	}
	if err := mergo.MergeWithOverwrite(cfg, fileCfg); err != nil {
		return &ConfigError{Code: ErrCodeMerge, Message: "failed to merge configuration sources", Cause: err}
	}
	return nil
}

func (l *Loader) loadSources(ctx context.Context, cfg interface{}) error {
	sources := append([]Source(nil), l.opts.sources...)
	sort.SliceStable(sources, func(i, j int) bool {
		return sources[i].Priority() > sources[j].Priority()
	})

	for _, source := range sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := source.Load(ctx, cfg); err != nil {
			return &ConfigError{
				Code:    ErrCodeSourceFailed,
				Message: fmt.Sprintf("failed to load from source %s", source.Name()),
				Cause:   err,
			}
		}
	}
	return nil
}

func (l *Loader) resolveFileName() string {
	if l.opts.fileName != "" {
		return l.opts.fileName
	}
	if l.opts.fileEnv != "" {
		if fileName := os.Getenv(l.opts.fileEnv); fileName != "" {
			return fileName
		}
	}
	if l.opts.defaultFileName == "" {
		return ""
	}
	if _, err := os.Stat(l.opts.defaultFileName); err == nil {
		return l.opts.defaultFileName
	}
	return ""
}

// DefaultValidator applies go-playground validate tags, nested structs included.
type DefaultValidator struct {
	validator *validator.Validate
}

func (v *DefaultValidator) Validate(_ context.Context, cfg interface{}) error {
	if v.validator == nil {
		v.validator = validator.New()
	}
	return v.validator.Struct(cfg)
}

var (
	sensitiveFieldNames = []string{"password", "secret", "key", "token", "credential"}
	exposedPatterns     = []string{"password", "123456", "admin", "test"}
)

// DefaultSecurityChecker refuses placeholder values in secret fields such
// as ADMIN_PASSWORD=admin123. Bcrypt hashes are allowed.
type DefaultSecurityChecker struct{}

func (sc *DefaultSecurityChecker) CheckSecurity(_ context.Context, cfg interface{}) error {
	return sc.checkStruct(reflect.ValueOf(cfg).Elem(), "")
}

// checkStruct walks nested and embedded structs so Admin.Password is
// checked the same way as a top level field.
func (sc *DefaultSecurityChecker) checkStruct(val reflect.Value, prefix string) error {
	if val.Kind() != reflect.Struct {
		return nil
	}
	typ := val.Type()

	for i := 0; i < val.NumField(); i++ {
		field, fieldType := val.Field(i), typ.Field(i)
		if !fieldType.IsExported() {
			continue
		}
		name := prefix + fieldType.Name

		switch field.Kind() {
		case reflect.Struct:
			if err := sc.checkStruct(field, name+"."); err != nil {
				return err
			}
		case reflect.String:
			if containsAny(fieldType.Name, sensitiveFieldNames) && isExposed(field.String()) {
				return fmt.Errorf("sensitive field %s appears to contain exposed credentials", name)
			}
		}
	}
	return nil
}

func isExposed(value string) bool {
	if value == "" {
		return false
	}
	if strings.HasPrefix(value, "$2a$") || strings.HasPrefix(value, "$2b$") {
		return false
	}
	return containsAny(value, exposedPatterns)
}

func containsAny(s string, needles []string) bool {
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}
