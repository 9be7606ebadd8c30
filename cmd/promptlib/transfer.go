package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/promptlib/internal/app"
	"github.com/MrSnakeDoc/promptlib/internal/codec"
)

const stdio = "-"

func (c *cli) importCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import FILE",
		Short: "Merge an export file into the library",
		Long: `Merge an export file into the library.

Imported prompts are added in front of the existing ones, in file order.
Entries without a title or content are skipped. Ids already in the library
are replaced with fresh ones, so nothing is overwritten. Use - for stdin.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}

			cands, err := codec.ParseImport(data)
			if err != nil {
				return err
			}

			return c.withLibrary(cmd, func(lib *app.Library) error {
				res := lib.Repo.ImportMerge(cmd.Context(), cands)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Imported %d prompts (%d skipped)\n", len(res.Imported), res.Skipped)
				return err
			})
		},
	}
}

func (c *cli) exportCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the library to a JSON file",
		Long: `Write the whole library to a JSON file that 'promptlib import' reads back.

The default file name is prompts-YYYY-MM-DD.json in the current directory.
Use -o - to write to stdout. An empty library is not exported.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd, func(lib *app.Library) error {
				prompts := lib.Repo.List()
				if len(prompts) == 0 {
					_, err := fmt.Fprintln(cmd.ErrOrStderr(), "The library is empty, nothing to export.")
					return err
				}

				data, err := codec.Export(prompts)
				if err != nil {
					return err
				}

				if output == stdio {
					_, err := fmt.Fprintln(cmd.OutOrStdout(), string(data))
					return err
				}

				path := output
				if path == "" {
					path = codec.ExportFilename(c.now())
				}
				if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
					return fmt.Errorf("failed to write export: %w", err)
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Exported %d prompts to %s\n", len(prompts), path)
				return err
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "file to write, - for stdout (default prompts-YYYY-MM-DD.json)")
	return cmd
}

func (c *cli) seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed FILE",
		Short: "Import a YAML starter pack",
		Long: `Import a YAML starter pack. Prompts are grouped under their category id:

  - code:
      - title: Code review
        content: Review this diff for bugs and unclear names.
  - photo:
      - title: Product shot
        content: Studio photo of the product on a white background.
        favorite: true

Every entry is validated first; a pack with any invalid entry imports nothing.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd, func(lib *app.Library) error {
				res, err := lib.Seed(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "Imported %d prompts from %s\n", len(res.Imported), args[0])
				return err
			})
		},
	}
}

func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == stdio {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return data, nil
}
