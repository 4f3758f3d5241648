package cmd

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/yeisme/hydrogen/pkg/configs"
	kv "github.com/yeisme/hydrogen/pkg/internal/storage/kv"
)

var (
	kvCmd = &cobra.Command{
		Use:     "kv",
		Short:   "Key-Value store related commands",
		Aliases: []string{"keyvalue"},
	}

	kvListCmd = &cobra.Command{
		Use:     "list",
		Short:   "list all registered kv types, * marks the configured one",
		Aliases: []string{"ls", "l"},
		Run: func(cmd *cobra.Command, args []string) {
			current := kv.KVType(configs.GetConfig().KV.Type)

			types := kv.GetRegisteredKVTypes()
			slices.Sort(types)

			fmt.Fprintln(cmd.OutOrStdout(), "Registered kv types:")

			for _, t := range types {
				fmt.Fprintf(cmd.OutOrStdout(), " %s %s\n", marker(t == current), t)
			}
		},
	}
)

// registerKVCommands 注册 KV 相关命令.
func registerKVCommands() {
	rootCmd.AddCommand(kvCmd)
	kvCmd.AddCommand(kvListCmd)
}

func marker(selected bool) string {
	if selected {
		return "*"
	}

	return " "
}
