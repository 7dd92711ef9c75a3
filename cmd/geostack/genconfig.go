package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geonode-contrib/geostack/pkg/commands"
)

func newGenConfigCmd() *cobra.Command {
	var (
		write  bool
		output string
	)

	cmd := &cobra.Command{
		Use:     "genconfig",
		Short:   MsgGenConfigShort,
		Long:    MsgGenConfigLong,
		GroupID: "misc",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := commands.GenConfig(commands.GenConfigOptions{
				Write: write,
				Path:  output,
			})
			if err != nil {
				return err
			}

			if !write {
				fmt.Print(result.Content)
				return nil
			}
			if result.Written {
				fmt.Printf("Written %s\n", result.Path)
			} else {
				fmt.Printf("%s already exists, not overwritten\n", result.Path)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&write, "write", false, MsgFlagWrite)
	cmd.Flags().StringVarP(&output, "output", "o", "", MsgFlagOutput)
	return cmd
}
