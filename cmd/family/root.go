package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"github.com/automainint/go-family/internal/config"
)

// Version is the version of the family command.
const Version = "0.3.0"

var log = commonlog.GetLogger("family")

// app carries what the subcommands share.
type app struct {
	v      *viper.Viper
	cfg    *config.Config
	stdin  io.Reader
	stdout io.Writer
}

func newRootCmd(v *viper.Viper, stdin io.Reader, stdout io.Writer) *cobra.Command {
	a := &app{v: v, stdin: stdin, stdout: stdout}
	config.SetDefaults(v)

	rootCmd := &cobra.Command{
		Use:   "family",
		Short: "convert and inspect family documents",
		Long: fmt.Sprintf(`family (v%s)

Converts family documents between the binary, text and CBOR forms, packs
and unpacks dictionary keys and prints documents as text. Settings can be
given as flags, as FAMILY_<FLAG> environment variables (e.g. FAMILY_INDENT=4),
in .env files or in family.toml.`, Version),
		SilenceUsage:      true,
		PersistentPreRunE: a.processConfig,
	}
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)

	rootCmd.PersistentFlags().String(config.KeyConfig, "", "config file (default ./family.toml)")
	rootCmd.PersistentFlags().CountP(config.KeyVerbosity, "v", "increase log verbosity (repeatable)")
	rootCmd.PersistentFlags().String(config.KeyLogFile, "", "write logs to this file instead of stderr")
	rootCmd.PersistentFlags().String(config.KeyFrom, "auto", "input format (auto, binary, text, cbor)")
	rootCmd.PersistentFlags().Int(config.KeyMaxDepth, 1000, "maximum nesting depth accepted when decoding")
	rootCmd.PersistentFlags().Int(config.KeyMaxValues, 1<<22, "maximum number of values a decoded document may hold")

	rootCmd.AddCommand(
		a.newConvertCmd(),
		a.newPackCmd(),
		a.newUnpackCmd(),
		a.newDumpCmd(),
		a.newKeysCmd(),
		newVersionCmd(),
	)
	return rootCmd
}

// processConfig binds the flags of the running command to viper, reads the
// environment and config file and sets up logging.
func (a *app) processConfig(cmd *cobra.Command, _ []string) error {
	if err := a.v.BindPFlags(cmd.Flags()); err != nil {
		return err
	}
	file, err := cmd.Flags().GetString(config.KeyConfig)
	if err != nil {
		return err
	}
	if err := config.Init(a.v, file); err != nil {
		return err
	}
	cfg, err := config.Load(a.v)
	if err != nil {
		return err
	}
	a.cfg = cfg

	var path *string
	if cfg.LogFile != "" {
		path = &cfg.LogFile
	}
	commonlog.Configure(cfg.Verbosity, path)
	log.Debugf("config: %+v", *cfg)
	return nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of family",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "family v%s\n", Version)
		},
	}
}
