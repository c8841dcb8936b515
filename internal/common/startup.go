package common

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
	"github.com/weaveworks/promrus"

	commonconfig "github.com/glideinproject/glidein/internal/common/config"
)

// DefaultConfigType is used for config files whose extension viper does not recognise, e.g. cluster.config.
const DefaultConfigType = "ini"

// LoadConfig reads the file at path into config. Keys absent from the file take their value from defaults.
func LoadConfig(config interface{}, path string, defaults map[string]interface{}) error {
	for key, value := range defaults {
		viper.SetDefault(key, value)
	}
	viper.SetConfigFile(path)
	if !isSupportedExtension(path) {
		viper.SetConfigType(DefaultConfigType)
	}
	if err := viper.ReadInConfig(); err != nil {
		return errors.Wrapf(err, "reading config file %s", path)
	}
	if err := viper.Unmarshal(config, commonconfig.CustomHooks...); err != nil {
		return errors.Wrapf(err, "decoding config file %s", path)
	}
	return nil
}

func isSupportedExtension(path string) bool {
	ext := strings.TrimPrefix(filepath.Ext(path), ".")
	for _, supported := range viper.SupportedExts {
		if strings.EqualFold(ext, supported) {
			return true
		}
	}
	return false
}

func ConfigureLogging() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	log.SetOutput(os.Stdout)
	log.SetLevel(log.InfoLevel)
}

func SetDebugLogging(debug bool) {
	if debug {
		log.SetLevel(log.DebugLevel)
	}
}

// ServeMetrics exposes the default prometheus registry on port and counts log lines per level.
// The returned function stops the server.
func ServeMetrics(port uint16) (shutdown func()) {
	hook, err := promrus.NewPrometheusHook()
	if err != nil {
		log.Warnf("not counting log messages: %s", err)
	} else {
		log.AddHook(hook)
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(prometheus.DefaultGatherer, promhttp.HandlerOpts{}))
	return ServeHttp(port, mux)
}

func ServeHttp(port uint16, mux http.Handler) (shutdown func()) {
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: mux,
	}

	go func() {
		log.Printf("Starting http server listening on %d", port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Error("http server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Printf("Stopping http server listening on %d", port)
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Error("failed to stop http server")
		}
	}
}
