package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var coursesCmd = &cobra.Command{
	Use:   "courses",
	Short: "List available courses",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		client := newClient(cfg)

		courses, err := client.Courses(cmd.Context())
		if err != nil {
			return fmt.Errorf("list courses: %w", err)
		}
		if len(courses) == 0 {
			fmt.Println("No courses available.")
			return nil
		}

		for _, c := range courses {
			fmt.Printf("%-38s %s\n", c.ID, c.Name)
		}
		return nil
	},
}
