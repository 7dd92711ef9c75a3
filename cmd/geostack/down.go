package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geonode-contrib/geostack/pkg/commands"
)

func newDownCmd() *cobra.Command {
	var clearState bool

	cmd := &cobra.Command{
		Use:     "down",
		Short:   MsgDownShort,
		Long:    MsgDownLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			runner, store := newRuntime(false)
			result, err := commands.Down(cmd.Context(), commands.DownOptions{
				Config:     cfg,
				Runner:     runner,
				Store:      store,
				ClearState: clearState,
			})
			if err != nil {
				return err
			}

			if result.StackStopped {
				fmt.Println(MsgStackStopped)
			} else {
				fmt.Println(MsgNoStack)
			}
			if result.StateCleared {
				fmt.Println(MsgStateCleared)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&clearState, "clear-state", false, MsgFlagClearState)
	return cmd
}
