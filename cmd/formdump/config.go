package main

import (
	"github.com/kelseyhightower/envconfig"

	"github.com/indigo-web/formdata/config"
)

// environment is read from FORMDUMP_-prefixed variables. Zero values keep the defaults.
type environment struct {
	LogLevel        string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat       string `envconfig:"LOG_FORMAT" default:"text"`
	MaxHeaderLength int    `envconfig:"MAX_HEADER_LENGTH"`
	HeaderCharset   string `envconfig:"HEADER_CHARSET"`
	DefaultCharset  string `envconfig:"DEFAULT_CHARSET"`
	FieldNameSize   int    `envconfig:"FIELD_NAME_SIZE"`
	FieldSize       int    `envconfig:"FIELD_SIZE"`
	Fields          int    `envconfig:"FIELDS"`
	FileSize        int    `envconfig:"FILE_SIZE"`
	Files           int    `envconfig:"FILES"`
	HeaderPairs     int    `envconfig:"HEADER_PAIRS"`
	ReadBufferSize  int    `envconfig:"READ_BUFFER_SIZE"`
	MaxBodySize     int    `envconfig:"MAX_BODY_SIZE"`
}

func loadEnvironment() (env environment, err error) {
	err = envconfig.Process("formdump", &env)
	return env, err
}

// Apply overrides the config defaults with whatever was set.
func (e environment) Apply(cfg *config.Config) *config.Config {
	setInt(&cfg.Multipart.MaxHeaderLength, e.MaxHeaderLength)
	setString(&cfg.Multipart.HeaderCharset, e.HeaderCharset)
	setString(&cfg.Form.DefaultCharset, e.DefaultCharset)
	setInt(&cfg.Multipart.Limits.FieldNameSize, e.FieldNameSize)
	setInt(&cfg.Multipart.Limits.FieldSize, e.FieldSize)
	setInt(&cfg.Multipart.Limits.Fields, e.Fields)
	setInt(&cfg.Multipart.Limits.FileSize, e.FileSize)
	setInt(&cfg.Multipart.Limits.Files, e.Files)
	setInt(&cfg.Multipart.Limits.HeaderPairs, e.HeaderPairs)
	setInt(&cfg.Body.ReadBufferSize, e.ReadBufferSize)
	setInt(&cfg.Body.MaxSize, e.MaxBodySize)

	return cfg
}

func setInt(dst *int, value int) {
	if value != 0 {
		*dst = value
	}
}

func setString(dst *string, value string) {
	if len(value) > 0 {
		*dst = value
	}
}
