package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/glideinproject/glidein/internal/glidein/domain"
	"github.com/glideinproject/glidein/internal/glidein/priority"
)

var CustomHooks = []viper.DecoderConfigOption{
	viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		PriorityOrderDecodeHook(),
		SchedulerTypeDecodeHook(),
		StringToLinesHookFunc(),
		mapstructure.StringToTimeDurationHookFunc(),
	)),
}

// PriorityOrderDecodeHook accepts either a list or a string such as `["gpus", "-memory"]` or `gpus, -memory`.
func PriorityOrderDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if t != reflect.TypeOf(priority.Order{}) {
			return data, nil
		}
		switch v := data.(type) {
		case string:
			return priority.ParseOrder(splitList(v))
		case []string:
			return priority.ParseOrder(v)
		case []interface{}:
			keys := make([]string, len(v))
			for i, key := range v {
				keys[i] = fmt.Sprintf("%v", key)
			}
			return priority.ParseOrder(keys)
		}
		return data, nil
	}
}

// SchedulerTypeDecodeHook normalises the scheduler name. Unknown names are left for validation to report.
func SchedulerTypeDecodeHook() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.TypeOf(domain.SchedulerType("")) {
			return data, nil
		}
		return domain.SchedulerType(strings.ToLower(strings.TrimSpace(data.(string)))), nil
	}
}

// StringToLinesHookFunc splits a multi-line string into its non-empty lines.
func StringToLinesHookFunc() mapstructure.DecodeHookFuncType {
	return func(
		f reflect.Type,
		t reflect.Type,
		data interface{},
	) (interface{}, error) {
		if f.Kind() != reflect.String || t != reflect.SliceOf(reflect.TypeOf("")) {
			return data, nil
		}
		lines := []string{}
		for _, line := range strings.Split(data.(string), "\n") {
			if strings.TrimSpace(line) != "" {
				lines = append(lines, strings.TrimRight(line, "\r"))
			}
		}
		return lines, nil
	}
}

func splitList(s string) []string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	for i, part := range parts {
		parts[i] = strings.Trim(strings.TrimSpace(part), `"'`)
	}
	return parts
}
