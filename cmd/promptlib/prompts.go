package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/promptlib/internal/app"
	"github.com/MrSnakeDoc/promptlib/internal/domain"
)

type draftFlags struct {
	title    string
	content  string
	category string
	url      string
	favorite bool
}

func (f *draftFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.title, "title", "t", "", "prompt title")
	cmd.Flags().StringVar(&f.content, "content", "", "prompt text")
	cmd.Flags().StringVarP(&f.category, "category", "c", domain.DefaultCategoryID, "category id (see 'promptlib categories')")
	cmd.Flags().StringVar(&f.url, "url", "", "reference URL")
	cmd.Flags().BoolVar(&f.favorite, "favorite", false, "star the prompt")
}

// apply overlays the flags the user set on d, trimmed. Fields without a
// flag are left exactly as stored.
func (f *draftFlags) apply(cmd *cobra.Command, d domain.Draft) domain.Draft {
	flags := cmd.Flags()
	if flags.Changed("title") {
		d.Title = strings.TrimSpace(f.title)
	}
	if flags.Changed("content") {
		d.Content = strings.TrimSpace(f.content)
	}
	if flags.Changed("category") {
		d.Category = strings.TrimSpace(f.category)
	}
	if flags.Changed("url") {
		d.URL = strings.TrimSpace(f.url)
	}
	if flags.Changed("favorite") {
		d.IsFavorite = f.favorite
	}
	return d
}

func (c *cli) addCmd() *cobra.Command {
	var f draftFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a prompt",
		Example: `  promptlib add -t "Code review" --content "Review this diff for bugs." -c code
  promptlib add -t "Product shot" --content "Studio photo on white." -c photo --favorite`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			draft := domain.Draft{
				Title:      f.title,
				Content:    f.content,
				Category:   f.category,
				URL:        f.url,
				IsFavorite: f.favorite,
			}.Normalize()
			if err := draft.Validate(); err != nil {
				return err
			}

			return c.withLibrary(cmd, func(lib *app.Library) error {
				p := lib.Repo.Add(cmd.Context(), draft)
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Added prompt %s\n", p.ID)
				return err
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) listCmd() *cobra.Command {
	var (
		filter domain.Filter
		output string
	)

	cmd := &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List prompts, newest first",
		Example: `  promptlib list
  promptlib list -q review -c code
  promptlib list --favorites -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			return c.withLibrary(cmd, func(lib *app.Library) error {
				return renderPrompts(cmd.OutOrStdout(), lib.Repo.Search(filter), output)
			})
		},
	}
	cmd.Flags().StringVarP(&filter.Query, "query", "q", "", "case-insensitive text to find in title or content")
	cmd.Flags().StringVarP(&filter.Category, "category", "c", domain.AllCategoryID, "category id, or 'all'")
	cmd.Flags().BoolVar(&filter.FavoritesOnly, "favorites", false, "only starred prompts")
	cmd.Flags().StringVarP(&output, "output", "o", outputTable, "output format: table or json")
	return cmd
}

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show ID",
		Short: "Show one prompt in full",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd, func(lib *app.Library) error {
				p, ok := lib.Repo.Get(domain.ID(args[0]))
				if !ok {
					return notFound(args[0])
				}
				return renderPrompt(cmd.OutOrStdout(), p)
			})
		},
	}
}

func (c *cli) editCmd() *cobra.Command {
	var f draftFlags

	cmd := &cobra.Command{
		Use:     "edit ID",
		Short:   "Change fields of a prompt",
		Long:    "Change fields of a prompt. Fields without a flag keep their current value.",
		Example: `  promptlib edit 1718040000000 -c productivity --favorite=false`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := domain.ID(args[0])
			return c.withLibrary(cmd, func(lib *app.Library) error {
				current, ok := lib.Repo.Get(id)
				if !ok {
					return notFound(args[0])
				}

				draft := f.apply(cmd, current.Draft())
				if err := draft.ValidateEdit(current); err != nil {
					return err
				}

				if _, ok := lib.Repo.Update(cmd.Context(), id, draft); !ok {
					return notFound(args[0])
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Updated prompt %s\n", id)
				return err
			})
		},
	}
	f.register(cmd)
	return cmd
}

func (c *cli) favCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "fav ID",
		Short: "Star or unstar a prompt",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd, func(lib *app.Library) error {
				p, ok := lib.Repo.ToggleFavorite(cmd.Context(), domain.ID(args[0]))
				if !ok {
					return notFound(args[0])
				}

				state := "Unstarred"
				if p.IsFavorite {
					state = "Starred"
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "%s prompt %s\n", state, p.ID)
				return err
			})
		},
	}
}

func (c *cli) rmCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a prompt",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withLibrary(cmd, func(lib *app.Library) error {
				if !lib.Repo.Delete(cmd.Context(), domain.ID(args[0])) {
					return notFound(args[0])
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "Deleted prompt %s\n", args[0])
				return err
			})
		},
	}
}

func notFound(id string) error {
	return fmt.Errorf("prompt %s not found", id)
}
