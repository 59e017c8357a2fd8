package alguard

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alguard/alguard/internal/config"
)

var (
	cfgOutput string
	cfgPrefix string
	cfgForce  bool
)

func init() {
	cfgCmd := &cobra.Command{Use: "config", Short: "Configuration helpers"}
	rootCmd.AddCommand(cfgCmd)

	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Generate a .alguard.yml with every rule enabled",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := config.WriteFile(cfgOutput, config.Starter(cfgPrefix), cfgForce); err != nil {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Wrote", cfgOutput)
			return nil
		},
	}
	cfgCmd.AddCommand(initCmd)

	initCmd.Flags().StringVar(&cfgOutput, "output", ".alguard.yml", "output file path")
	initCmd.Flags().StringVar(&cfgPrefix, "prefix", "ABC", "required object name prefix")
	initCmd.Flags().BoolVar(&cfgForce, "force", false, "overwrite an existing file")

	pathCmd := &cobra.Command{
		Use:   "path",
		Short: "Print the configuration files alguard reads",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			for _, name := range config.LocalNames {
				_, _ = fmt.Fprintln(out, "local: ", name)
			}
			if p := config.GlobalPath(); p != "" {
				_, _ = fmt.Fprintln(out, "global:", p)
			}
		},
	}
	cfgCmd.AddCommand(pathCmd)
}
