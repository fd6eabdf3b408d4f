package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	httpcmd "github.com/Alijeyrad/clinicdesk_backend/cmd/http"
	systemcmd "github.com/Alijeyrad/clinicdesk_backend/cmd/system"
)

var (
	cfgFile string
)

var rootCmd = &cobra.Command{
	Use:   "clinicdesk",
	Short: "ClinicDesk booking and accounting backend for a single clinic.",
	Long: `ClinicDesk takes online appointment requests from the public site and gives
the clinic staff a dashboard for bookings, patient reports and monthly accounts.`,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global config flag, available for all commands.
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "config.yaml", "config file path")

	rootCmd.AddCommand(systemcmd.NewSystemCommand())
	rootCmd.AddCommand(httpcmd.NewHTTPCommand())
}
