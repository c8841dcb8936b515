package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	"github.com/glideinproject/glidein/internal/common/glideinerrors"
)

// NewValidator reports fields by their configuration key, e.g. "cluster.running_cmd".
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateStruct converts struct validation failures into glideinerrors types.
func ValidateStruct(v *validator.Validate, config interface{}) error {
	err := v.Struct(config)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return errors.WithStack(err)
	}
	var result *multierror.Error
	for _, fieldErr := range validationErrors {
		key := stripPrefix(fieldErr.Namespace())
		switch fieldErr.Tag() {
		case "required":
			result = multierror.Append(result, &glideinerrors.ErrMissingConfig{Key: key})
		case "required_if", "required_unless":
			result = multierror.Append(result, &glideinerrors.ErrMissingConfig{
				Key:     key,
				Message: fieldErr.Tag() + " " + fieldErr.Param(),
			})
		default:
			result = multierror.Append(result, &glideinerrors.ErrInvalidArgument{
				Name:    key,
				Value:   fieldErr.Value(),
				Message: "failed " + fieldErr.Tag() + " " + fieldErr.Param(),
			})
		}
	}
	return result.ErrorOrNil()
}

func LogValidationErrors(err error) {
	var merr *multierror.Error
	if !errors.As(err, &merr) {
		if err != nil {
			log.Errorf("ConfigError: %s", err)
		}
		return
	}
	for _, err := range merr.Errors {
		log.Errorf("ConfigError: %s", err)
	}
}

func stripPrefix(s string) string {
	if idx := strings.Index(s, "."); idx != -1 {
		return s[idx+1:]
	}
	return s
}
