/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"

	serial "github.com/allbin/go-serialping"
	"github.com/allbin/go-serialping/internal/logging"
	"github.com/allbin/go-serialping/internal/session"
	"github.com/allbin/go-serialping/internal/tui/models"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// connectCmd represents the connect command
var connectCmd = &cobra.Command{
	Use:   "connect <port> <baudrate>",
	Short: "Exchange requests with a serial device in a full-screen terminal",
	Long: `Open the specified serial port in an interactive full-screen view.

Requests typed in insert mode are transmitted and every reply line is added
to the transcript in the same hex and text form the line mode prints.
Features include:
- Text or hex request entry (Tab toggles)
- Request history (up/down)
- Hex and text columns that can be toggled
- Live byte counters in the status bar

Example usage:
  serialping connect /dev/ttyUSB0 115200
  serialping connect /dev/ttyACM0 9600 --newline lf --log-file connect.log`,
	Args: cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		baud, err := strconv.Atoi(args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: invalid baud rate %q\n", args[1])
			os.Exit(1)
		}
		settings, err := sessionSettings()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		logFile, _ := cmd.Flags().GetString("log-file")

		if err := runConnectTUI(cmd.Context(), args[0], baud, settings, logFile); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(connectCmd)

	connectCmd.Flags().String("log-file", "", "Write logs to this file while the full-screen view is active")
}

func runConnectTUI(ctx context.Context, portPath string, baud int, settings session.Settings, logFile string) error {
	// The alt screen owns the terminal, so logs go to a file or nowhere
	if logFile != "" {
		f, err := tea.LogToFile(logFile, "serialping")
		if err != nil {
			return fmt.Errorf("opening log file: %w", err)
		}
		defer f.Close()
		if _, err := logging.Configure(viper.GetString("log-format"), viper.GetString("log-level"), f); err != nil {
			return err
		}
	} else {
		logging.Set(zerolog.Nop())
	}

	readTimeout := viper.GetDuration("read-timeout")
	config, err := serial.DefaultConfig().Apply(
		serial.WithBaudRate(baud),
		serial.WithReadTimeout(readTimeout),
	)
	if err != nil {
		return err
	}
	startMetrics(ctx)

	m := models.NewConnect(ctx, portPath, baud, config.Frame(), portOpener(readTimeout), settings)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))

	_, err = p.Run()
	m.Close()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
