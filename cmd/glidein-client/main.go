package main

import (
	"os"

	"github.com/glideinproject/glidein/cmd/glidein-client/cmd"
	"github.com/glideinproject/glidein/internal/common"
	"github.com/glideinproject/glidein/internal/common/glideinerrors"
)

func main() {
	common.ConfigureLogging()
	err := cmd.RootCmd().Execute()
	os.Exit(glideinerrors.ExitCode(err))
}
