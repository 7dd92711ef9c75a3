package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/geonode-contrib/geostack/pkg/commands"
)

func newStatusCmd() *cobra.Command {
	var (
		skipClient bool
		withEditor bool
	)

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			runner, store := newRuntime(false)
			result, err := commands.Status(cmd.Context(), commands.StatusOptions{
				Config:     cfg,
				Runner:     runner,
				Store:      store,
				SkipClient: skipClient,
				WithEditor: withEditor,
				SudoUser:   os.Getenv("SUDO_USER"),
			})
			if err != nil {
				return err
			}

			fmt.Println(MsgStepsHeader)
			for _, step := range result.Steps {
				printStep(step)
			}

			if len(result.Services) > 0 {
				fmt.Println(MsgServicesHeader)
				for _, svc := range result.Services {
					fmt.Printf("  %-12s %-10s %s\n", svc.Service, svc.State, svc.Name)
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipClient, "skip-client", false, MsgFlagSkipClient)
	cmd.Flags().BoolVar(&withEditor, "with-editor", false, MsgFlagWithEditor)
	return cmd
}
