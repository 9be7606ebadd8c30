package main

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/promptlib/internal/app"
	"github.com/MrSnakeDoc/promptlib/internal/domain"
)

func (c *cli) categoriesCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "categories",
		Short: "List categories and how many prompts each holds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}

			cats := domain.Categories()
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), cats)
			}

			return c.withLibrary(cmd, func(lib *app.Library) error {
				prompts := lib.Repo.List()
				counts := map[string]int{domain.AllCategoryID: len(prompts)}
				for _, p := range prompts {
					counts[p.Category]++
				}
				renderCategories(cmd.OutOrStdout(), cats, counts)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}
