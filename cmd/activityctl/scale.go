package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rpggio/recipe-activity/internal/domain/quantity"
)

func newScaleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scale AMOUNT FROM_SERVINGS TO_SERVINGS",
		Short: "Scale an ingredient amount between serving counts",
		Example: `  activityctl scale "1 1/2" 4 6
  activityctl scale 0.75 2 1`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			amount, err := quantity.Parse(args[0])
			if err != nil {
				return err
			}
			from, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("FROM_SERVINGS: %w", err)
			}
			to, err := strconv.Atoi(args[2])
			if err != nil {
				return fmt.Errorf("TO_SERVINGS: %w", err)
			}
			scaled, err := quantity.Scale(amount, from, to)
			if err != nil {
				return err
			}
			cmd.Println(quantity.Format(scaled))
			return nil
		},
	}
}
