package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	socket "github.com/Zereker/unixipc"
)

// app holds the state shared by every subcommand, set in PersistentPreRunE.
type app struct {
	cfgFile   string
	endpoint  string
	byteOrder string
	logLevel  string
	noColor   bool

	cfg    config
	logger socket.Logger
	opts   []socket.Option
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "ipcctl",
		Short: "Send and receive framed messages over a local socket",
		Long: `ipcctl talks the id/length/payload frame protocol over a Unix domain
stream socket. "send" and "stop" connect to a running listener; "listen"
runs one and prints every frame it receives until asked to stop.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.load(cmd)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&a.cfgFile, "config", "", "TOML config file")
	flags.StringVar(&a.endpoint, "endpoint", "", "socket path (default \""+defaultEndpoint+"\")")
	flags.StringVar(&a.byteOrder, "byte-order", "", "header byte order: little or big (default \"little\")")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn, error, off")
	flags.BoolVar(&a.noColor, "no-color", false, "disable colored log output")

	rootCmd.AddCommand(newSendCmd(a))
	rootCmd.AddCommand(newStopCmd(a))
	rootCmd.AddCommand(newListenCmd(a))

	return rootCmd
}

// load resolves configuration: defaults, then the config file, then the
// environment, then flags.
func (a *app) load(cmd *cobra.Command) error {
	cfg, err := loadConfig(a.cfgFile)
	if err != nil {
		return err
	}
	applyEnvOverrides(&cfg)

	flags := cmd.Flags()
	if flags.Changed("endpoint") {
		cfg.Endpoint = a.endpoint
	}
	if flags.Changed("byte-order") {
		cfg.ByteOrder = a.byteOrder
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = a.logLevel
	}

	a.cfg = cfg
	a.logger = zerologAdapter{logger: newLogger(cmd.ErrOrStderr(), cfg.LogLevel, a.noColor)}

	a.opts, err = cfg.options(a.logger)
	if err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// dial connects a Sender to the configured endpoint.
func (a *app) dial() (*socket.Sender, error) {
	sender, err := socket.Dial(a.cfg.Endpoint, a.opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", a.cfg.Endpoint, err)
	}
	return sender, nil
}

func readPayload(data, file string) ([]byte, error) {
	if data != "" && file != "" {
		return nil, fmt.Errorf("--data and --file are mutually exclusive")
	}
	if file != "" {
		b, err := os.ReadFile(file)
		if err != nil {
			return nil, fmt.Errorf("failed to read payload file: %w", err)
		}
		return b, nil
	}
	return []byte(data), nil
}
