package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/geonode-contrib/geostack/pkg/commands"
	"github.com/geonode-contrib/geostack/pkg/provision"
)

func newUpCmd() *cobra.Command {
	var (
		skipClient bool
		withEditor bool
	)

	cmd := &cobra.Command{
		Use:     "up",
		Short:   MsgUpShort,
		Long:    MsgUpLong,
		Example: MsgUpExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")
			force, _ := cmd.Root().PersistentFlags().GetBool("force")
			runner, store := newRuntime(dryRun)

			log.Info().
				Str("install_dir", cfg.Install.Dir).
				Bool("dry_run", dryRun).
				Bool("force", force).
				Msg("Provisioning stack")

			result, err := commands.Up(cmd.Context(), commands.UpOptions{
				Config:     cfg,
				Runner:     runner,
				Store:      store,
				DryRun:     dryRun,
				Force:      force,
				SkipClient: skipClient,
				WithEditor: withEditor,
				SudoUser:   os.Getenv("SUDO_USER"),
				OnStep:     printStep,
			})
			if err != nil {
				fmt.Println(MsgRunFailed)
				return err
			}

			if dryRun {
				fmt.Println(MsgDryRunNotice)
				return nil
			}

			var ran, skipped int
			for _, step := range result.Steps {
				switch step.Status {
				case provision.StatusRan:
					ran++
				case provision.StatusSkipped, provision.StatusAlreadyRun:
					skipped++
				}
			}
			fmt.Printf("%s %d steps ran, %d already done.\n", MsgRunComplete, ran, skipped)
			return nil
		},
	}

	cmd.Flags().BoolVar(&skipClient, "skip-client", false, MsgFlagSkipClient)
	cmd.Flags().BoolVar(&withEditor, "with-editor", false, MsgFlagWithEditor)
	return cmd
}
