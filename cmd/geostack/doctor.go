package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/geonode-contrib/geostack/pkg/commands"
	"github.com/geonode-contrib/geostack/pkg/doctor"
	"github.com/geonode-contrib/geostack/pkg/style"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "doctor",
		Short:   MsgDoctorShort,
		Long:    MsgDoctorLong,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			runner, _ := newRuntime(false)
			results, err := commands.Doctor(cmd.Context(), commands.DoctorOptions{
				Config: cfg,
				Runner: runner,
			})
			if err != nil {
				return err
			}

			fmt.Println(MsgChecksHeader)
			for _, check := range results {
				line := fmt.Sprintf("%-16s %s", check.Name, check.Message)
				if check.Recommendation != "" {
					line += " (" + check.Recommendation + ")"
				}
				fmt.Println(style.StatusLine(checkStyle(check.Status), line))
			}

			if doctor.HasFailures(results) {
				fmt.Println(MsgDoctorFailures)
				return fmt.Errorf("preflight checks failed")
			}
			fmt.Println(MsgDoctorHealthy)
			return nil
		},
	}
}
