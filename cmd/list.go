/*
Copyright © 2025 Mathias Djärv <mathias.djarv@allbinary.se>
*/
package cmd

import (
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	serial "github.com/allbin/go-serialping"
	"github.com/allbin/go-serialping/internal/tui/styles"
	"github.com/charmbracelet/lipgloss"
	"github.com/evertras/bubble-table/table"
	"github.com/spf13/cobra"
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List available serial ports",
	Long: `List all serial ports that serialping can open.

This command scans for communication-capable serial devices including:
- USB serial adapters (ttyUSB*)
- USB CDC/ACM devices (ttyACM*)
- Standard serial ports (ttyS*)
- ARM/Raspberry Pi ports (ttyAMA*)
- And other platform-specific serial devices

Virtual terminals and pseudo-terminals are excluded from the listing.`,
	Args: cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		ports, err := serial.ListPortInfo()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing ports: %v\n", err)
			os.Exit(1)
		}

		filterType, _ := cmd.Flags().GetString("filter")
		tableFormat, _ := cmd.Flags().GetBool("table")

		filtered, err := filterPorts(ports, filterType)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		if len(filtered) == 0 {
			if filterType != "" {
				fmt.Printf("No serial ports found matching filter: %s\n", filterType)
			} else {
				fmt.Println("No serial ports found")
			}
			return
		}

		if tableFormat {
			fmt.Printf("Found %d serial port(s):\n\n", len(filtered))
			fmt.Println(renderTable(filtered))
		} else {
			renderSimple(os.Stdout, filtered)
		}
	},
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("filter", "f", "", "Filter by port type: usb, standard, arm, all")
	listCmd.Flags().BoolP("table", "t", false, "Display output in a styled table format")
}

// filterPorts keeps the ports of the requested family
func filterPorts(ports []serial.PortInfo, filterType string) ([]serial.PortInfo, error) {
	var types []string
	switch strings.ToLower(filterType) {
	case "", "all":
		return ports, nil
	case "usb":
		types = []string{"USB Serial", "USB CDC/ACM"}
	case "standard":
		types = []string{"Standard Serial"}
	case "arm":
		types = []string{"ARM Serial"}
	default:
		return nil, fmt.Errorf("invalid filter %q (valid: usb, standard, arm, all)", filterType)
	}

	var filtered []serial.PortInfo
	for _, p := range ports {
		if slices.Contains(types, getPortType(p.Name)) {
			filtered = append(filtered, p)
		}
	}
	return filtered, nil
}

const (
	colPort = "port"
	colType = "type"
	colDesc = "desc"
	colUSB  = "usb"
)

// renderTable renders the port list through bubble-table
func renderTable(ports []serial.PortInfo) string {
	columns := []table.Column{
		table.NewColumn(colPort, "Port", 16),
		table.NewColumn(colType, "Type", 18),
		table.NewColumn(colDesc, "Description", 22),
		table.NewColumn(colUSB, "USB", 34),
	}

	rows := make([]table.Row, 0, len(ports))
	for _, p := range ports {
		rows = append(rows, table.NewRow(table.RowData{
			colPort: p.Path,
			colType: getPortType(p.Name),
			colDesc: p.Description,
			colUSB:  usbSummary(p),
		}))
	}

	return table.New(columns).
		WithRows(rows).
		BorderRounded().
		HeaderStyle(lipgloss.NewStyle().Bold(true).Foreground(styles.Mauve)).
		View()
}

// usbSummary renders "vid:pid product" for USB ports, "-" otherwise
func usbSummary(p serial.PortInfo) string {
	if !p.IsUSB() {
		return "-"
	}
	s := p.VendorID + ":" + p.ProductID
	if p.Product != "" {
		s += " " + p.Product
	}
	return s
}

func renderSimple(w io.Writer, ports []serial.PortInfo) {
	for _, p := range ports {
		fmt.Fprintln(w, p.Path)
	}
}

// getPortType returns a more specific type classification for the port
func getPortType(name string) string {
	name = strings.ToLower(name)
	switch {
	case strings.HasPrefix(name, "ttyusb"):
		return "USB Serial"
	case strings.HasPrefix(name, "ttyacm"):
		return "USB CDC/ACM"
	case strings.HasPrefix(name, "ttyama"):
		return "ARM Serial"
	case strings.HasPrefix(name, "ttymxc"):
		return "i.MX Serial"
	case strings.HasPrefix(name, "ttysac"):
		return "Samsung Serial"
	case strings.HasPrefix(name, "ttyths"):
		return "Tegra Serial"
	case strings.HasPrefix(name, "ttyo"):
		return "OMAP Serial"
	case strings.HasPrefix(name, "ttys"):
		return "Standard Serial"
	default:
		return "Serial Port"
	}
}
