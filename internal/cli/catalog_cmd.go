package cli

import (
	"fmt"

	"github.com/sc30gsw/nextjs-suama-sub001/internal/cli/formatter"
	"github.com/sc30gsw/nextjs-suama-sub001/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd(app), newUserListCmd(app))
	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var name, email string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{Name: name, Email: email}
			if err := app.Catalog.CreateUser(cmd.Context(), u); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created user %s (%s)\n", u.Name, formatter.TruncID(u.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().StringVar(&email, "email", "", "Email address")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Catalog.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatUserList(users))
			return nil
		},
	}
}

func newCategoryCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "category",
		Short: "Manage project categories",
	}

	var name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a category",
		RunE: func(cmd *cobra.Command, args []string) error {
			c := &domain.Category{Name: name}
			if err := app.Catalog.CreateCategory(cmd.Context(), c); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created category %s (%s)\n", c.Name, formatter.TruncID(c.ID))
			return nil
		},
	}
	add.Flags().StringVar(&name, "name", "", "Category name")
	_ = add.MarkFlagRequired("name")

	cmd.AddCommand(add)
	return cmd
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}
	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectArchiveCmd(app),
		newProjectRemoveCmd(app),
	)
	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var name, category string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p := &domain.Project{Name: name}
			if category != "" {
				c, err := resolveCategory(ctx, app, category)
				if err != nil {
					return err
				}
				p.CategoryID = &c.ID
			}
			if err := app.Catalog.CreateProject(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %s (%s)\n", p.Name, formatter.TruncID(p.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Project name")
	cmd.Flags().StringVar(&category, "category", "", "Category name or id")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			projects, err := app.Catalog.ListProjects(ctx, all)
			if err != nil {
				return err
			}
			categories, err := app.Catalog.ListCategories(ctx)
			if err != nil {
				return err
			}
			categoryNames := make(map[string]string, len(categories))
			for _, c := range categories {
				categoryNames[c.ID] = c.Name
			}
			counts := make(map[string]int, len(projects))
			for _, p := range projects {
				missions, err := app.Catalog.ListMissions(ctx, p.ID)
				if err != nil {
					return err
				}
				counts[p.ID] = len(missions)
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProjectList(projects, counts, categoryNames))
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Include archived projects")
	return cmd
}

func newProjectArchiveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "archive <project>",
		Short: "Archive a project so new reports cannot use its missions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.ArchiveProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Archived project %s\n", p.Name)
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <project>",
		Short: "Delete a project and its missions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := resolveProject(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Catalog.DeleteProject(cmd.Context(), p.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", p.Name)
			return nil
		},
	}
}

func newMissionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mission",
		Short: "Manage missions",
	}

	var project, name string
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a mission inside a project",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			p, err := resolveProject(ctx, app, project)
			if err != nil {
				return err
			}
			m := &domain.Mission{ProjectID: p.ID, Name: name}
			if err := app.Catalog.CreateMission(ctx, m); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created mission %s/%s (%s)\n", p.Name, m.Name, formatter.TruncID(m.ID))
			return nil
		},
	}
	add.Flags().StringVar(&project, "project", "", "Project name or id")
	add.Flags().StringVar(&name, "name", "", "Mission name")
	_ = add.MarkFlagRequired("project")
	_ = add.MarkFlagRequired("name")

	var listProject string
	list := &cobra.Command{
		Use:   "list",
		Short: "List missions",
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := listMissionRefs(cmd.Context(), app)
			if err != nil {
				return err
			}
			rows := make([][]string, 0, len(refs))
			for _, m := range refs {
				if listProject != "" && m.Project != listProject && m.ProjectID != listProject {
					continue
				}
				rows = append(rows, []string{formatter.TruncID(m.ID), m.Project, m.Name})
			}
			fmt.Fprint(cmd.OutOrStdout(), formatter.RenderTable([]string{"ID", "PROJECT", "MISSION"}, rows))
			return nil
		},
	}
	list.Flags().StringVar(&listProject, "project", "", "Only missions of this project (name or id)")

	cmd.AddCommand(add, list)
	return cmd
}
