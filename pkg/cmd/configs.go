package cmd

import (
	"fmt"

	"github.com/bytedance/sonic"
	"github.com/spf13/cobra"

	"github.com/yeisme/hydrogen/pkg/configs"
	"github.com/yeisme/hydrogen/pkg/rule"
)

var (
	configCmd = &cobra.Command{
		Use:   "config",
		Short: "config subcommands",
	}

	// 打印当前使用的配置文件路径.
	pathCmd = &cobra.Command{
		Use:   "path",
		Short: "print the path of the current config file",
		Run: func(cmd *cobra.Command, args []string) {
			used := ""
			if v := configs.GetViper(); v != nil {
				used = v.ConfigFileUsed()
			}

			if used == "" {
				fmt.Fprintln(cmd.OutOrStdout(), "no config file used (defaults and HYDROGEN_* env only)")
				return
			}

			fmt.Fprintln(cmd.OutOrStdout(), used)
		},
	}

	// 以 JSON 打印生效配置，密钥已隐藏.
	showCmd = &cobra.Command{
		Use:     "show",
		Short:   "print the effective config with secrets masked",
		Aliases: []string{"debug"},
		RunE: func(cmd *cobra.Command, args []string) error {
			if debug {
				if v := configs.GetViper(); v != nil {
					v.Debug()
				}
			}

			b, err := sonic.ConfigStd.MarshalIndent(configs.GetConfig().Masked(), "", "  ")
			if err != nil {
				return fmt.Errorf("marshal config: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(b))

			return nil
		},
	}

	// 按 rule 标签校验配置.
	validateCmd = &cobra.Command{
		Use:   "validate",
		Short: "validate the effective config",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := configs.GetConfig()

			if err := rule.ValidateStruct(cfg); err != nil {
				for _, f := range rule.Format(cfg, err) {
					fmt.Fprintf(cmd.ErrOrStderr(), "  %s: %s\n", f.Field, f.Msg)
				}

				return fmt.Errorf("config is invalid")
			}

			fmt.Fprintln(cmd.OutOrStdout(), "config ok")

			return nil
		},
	}
)

// registerConfigsCommands 注册 config 子命令.
func registerConfigsCommands() {
	configCmd.AddCommand(pathCmd, showCmd, validateCmd)

	rootCmd.AddCommand(configCmd)
}
