/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	serial "github.com/allbin/go-serialping"
	"github.com/allbin/go-serialping/internal/logging"
	"github.com/allbin/go-serialping/internal/session"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile  string
	exitCode int
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "serialping <port> <baudrate>",
	Short: "Send request lines to a serial device and print every reply",
	Long: `Open a serial port and exchange lines with the attached device.

Each line typed at the prompt is transmitted as-is. The tool then waits
until the device answers and prints every reply line as a byte count, an
uppercase hex dump and the decoded text. Type EXIT to close the port.

Run without arguments to see the serial ports detected on this system.

Examples:
  serialping /dev/ttyACM0 115200
  serialping /dev/ttyUSB0 9600 --newline crlf --read-timeout 1s`,
	Args: cobra.ArbitraryArgs,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if _, err := logging.Configure(viper.GetString("log-format"), viper.GetString("log-level"), os.Stderr); err != nil {
			return err
		}
		if f := viper.ConfigFileUsed(); f != "" {
			logging.L().Debug().Str("file", f).Msg("config_loaded")
		}
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		exitCode = runSession(cmd.Context(), args)
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	// A second signal gets the default behaviour and kills the process.
	go func() {
		<-ctx.Done()
		stop()
	}()
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
	os.Exit(exitCode)
}

func init() {
	cobra.OnInitialize(initConfig)

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default is $HOME/.serialping.yaml)")
	pf.String("log-level", logging.DefaultLevel.String(), "Log level: trace, debug, info, warn, error")
	pf.String("log-format", "console", "Log format: console, json")
	pf.Duration("read-timeout", serial.DefaultConfig().ReadTimeout, "Timeout for reading one reply line (multiple of 100ms, 0 waits forever)")
	pf.Duration("poll-interval", session.DefaultPollInterval, "Sleep between checks for a pending reply")
	pf.Int("buffer", serial.DefaultLineCapacity, "Maximum reply line length in bytes")
	pf.String("newline", "none", "Line ending appended to each request: none, lf, cr, crlf")
	pf.Bool("flush", false, "Discard pending input right after opening the port")
	pf.String("metrics-addr", "", "Serve Prometheus metrics on this address (e.g. :9100)")

	cobra.CheckErr(viper.BindPFlags(pf))
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)

		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".serialping")
	}

	viper.SetEnvPrefix("SERIALPING")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			fmt.Fprintf(os.Stderr, "Error reading config: %v\n", err)
			os.Exit(1)
		}
	}
}

func runSession(ctx context.Context, args []string) int {
	settings, err := sessionSettings()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return session.ExitFailure
	}
	startMetrics(ctx)

	app := &session.App{
		Program:   "serialping",
		Stdin:     os.Stdin,
		Stdout:    os.Stdout,
		Stderr:    os.Stderr,
		Open:      portOpener(viper.GetDuration("read-timeout")),
		Enumerate: serial.ListPortInfo,
		Settings:  settings,
	}
	return app.Run(ctx, args)
}
