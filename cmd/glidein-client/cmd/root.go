package cmd

import (
	"fmt"
	"os"
	"os/user"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/glideinproject/glidein/internal/common"
	"github.com/glideinproject/glidein/internal/common/app"
	commonconfig "github.com/glideinproject/glidein/internal/common/config"
	"github.com/glideinproject/glidein/internal/glidein"
	"github.com/glideinproject/glidein/internal/glidein/configuration"
)

const (
	ConfigLocation string = "config"
	UuidFlag       string = "uuid"
	DefaultConfig  string = "cluster.config"
)

func RootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "glidein-client",
		SilenceUsage: true,
		Short:        "Launches glideins into the local batch scheduler on behalf of a remote coordinator",
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := app.CreateContextWithShutdown()
			defer cancel()
			err = glidein.Run(ctx, config, viper.GetString(UuidFlag))
			if err != nil {
				log.WithError(err).Error("glidein client stopped")
			}
			return err
		},
	}

	addFlags(cmd.PersistentFlags())
	return cmd
}

func addFlags(flags *pflag.FlagSet) {
	flags.String(ConfigLocation, DefaultConfig, "Path to the cluster configuration file")
	flags.String(UuidFlag, defaultUuid(), "Identifies this client to the coordinator")
	_ = viper.BindPFlags(flags)
}

func loadConfig() (configuration.Configuration, error) {
	var config configuration.Configuration
	if err := common.LoadConfig(&config, viper.GetString(ConfigLocation), glidein.ConfigDefaults); err != nil {
		return config, err
	}
	err := configuration.ValidateConfiguration(config)
	if err != nil {
		commonconfig.LogValidationErrors(err)
	}
	return config, err
}

// defaultUuid is user@host, falling back to whatever part could be determined.
func defaultUuid() string {
	username := "unknown"
	if current, err := user.Current(); err == nil {
		username = current.Username
	}
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}
	return fmt.Sprintf("%s@%s", username, hostname)
}
