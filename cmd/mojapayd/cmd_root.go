package main

import (
	"context"
	"fmt"
	"runtime"
	"runtime/debug"

	"github.com/spf13/cobra"

	"mojapay.io/mobile-money/pkg/config"
)

type rootConfig struct {
	Ctx context.Context

	ConfigPath string
	DotEnvPath string
}

func newRootCommand() *cobra.Command {
	config := new(rootConfig)
	cmd := &cobra.Command{
		Use:   "mojapayd",
		Short: "Serve the mobile money payment API",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) (err error) {
			config.Ctx = cmdCtx()
			return nil
		},
		Version:      getVersion(),
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVarP(
		&config.ConfigPath,
		"config", "c",
		defaultConfigPath,
		"The configuration file")
	cmd.PersistentFlags().StringVarP(
		&config.DotEnvPath,
		"env-file", "",
		".env",
		"File of environment overrides loaded before the environment")

	cmd.AddCommand(newServeCommand(config))
	return cmd
}

const defaultConfigPath = config.DefaultPath

func getVersion() string {
	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}

	return fmt.Sprintf("%s (built with %s)\n", buildInfo.Main.Version, runtime.Version())
}
