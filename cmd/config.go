package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/penwyp/svnstage/internal/errors"
)

var flagForce bool

var initConfigCmd = &cobra.Command{
	Use:   "init-config",
	Short: "Write the default configuration file",
	Long: `Write the default configuration file. The format follows the file
extension: .yaml/.yml, .json or .toml.`,
	Args: cobra.NoArgs,
	// 配置文件可能尚不存在或已损坏，不经过 setup
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	RunE: func(cmd *cobra.Command, _ []string) error {
		mgr, err := configManager()
		if err != nil {
			return err
		}
		if _, err := os.Stat(mgr.Path()); err == nil && !flagForce {
			return errors.New(errors.ErrTypeConfig, "config file already exists").
				WithPath(mgr.Path()).
				WithSuggestion("pass --force to overwrite it")
		}
		if err := mgr.CreateDefaultConfig(); err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), renderStatusBar("Wrote "+mgr.Path(), true))
		return err
	},
}

func init() {
	initConfigCmd.Flags().BoolVarP(&flagForce, "force", "f", false, "overwrite an existing config file")
	rootCmd.AddCommand(initConfigCmd)
}
