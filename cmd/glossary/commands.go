package main

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"glossary-manager/internal/generator"
	"glossary-manager/internal/model"
	"glossary-manager/internal/templating"
)

func (a *app) newListCommand() *cobra.Command {
	sorted := false
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List all terms",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := a.storage.LoadTerms()
			if err != nil {
				return err
			}
			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No terms found.")
				return nil
			}
			if sorted {
				list = templating.SortByName(list)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tDEFINITION")
			for _, t := range list {
				fmt.Fprintf(tw, "%s\t%s\n", t.Name, t.Definition)
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&sorted, "sort", false, "Sort terms by name instead of storage order")
	return cmd
}

func (a *app) newAddCommand() *cobra.Command {
	var name, definition string
	cmd := &cobra.Command{
		Use:   "add --name <name> [--definition <text>]",
		Short: "Add a new term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := a.storage.AddTerm(model.NewTerm(name, definition))
			if err != nil {
				return err
			}
			a.logger.Info("Term added", "name", term.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", term)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name of the term (required)")
	cmd.Flags().StringVar(&definition, "definition", "", "Definition of the term")
	cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) newUpdateCommand() *cobra.Command {
	var name, newName, definition string
	cmd := &cobra.Command{
		Use:   "update --name <name> [--new-name <name>] [--definition <text>]",
		Short: "Rename a term and/or replace its definition",
		Long: `Replace the stored term called --name.

The definition is replaced with --definition; omitting it clears the definition.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if newName == "" {
				newName = name
			}
			term, err := a.storage.UpdateTerm(model.NewTerm(name, ""), model.NewTerm(newName, definition))
			if err != nil {
				return err
			}
			a.logger.Info("Term updated", "name", name, "new_name", term.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", term)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Current name of the term (required)")
	cmd.Flags().StringVar(&newName, "new-name", "", "New name of the term (defaults to --name)")
	cmd.Flags().StringVar(&definition, "definition", "", "New definition of the term")
	cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) newRemoveCommand() *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "remove --name <name>",
		Short: "Remove a term",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			term, err := a.storage.RemoveTerm(model.NewTerm(name, ""))
			if err != nil {
				return err
			}
			a.logger.Info("Term removed", "name", term.Name)
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", term.Name)
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Name of the term (required)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func (a *app) newRecreateCommand() *cobra.Command {
	var from string
	var empty bool
	cmd := &cobra.Command{
		Use:   "recreate (--from <file> | --empty)",
		Short: "Rebuild the storage file from an export, or as an empty glossary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" && !empty {
				return errors.New("one of --from or --empty is required")
			}
			list := []model.Term{}
			if from != "" {
				var err error
				if list, err = generator.Import(from); err != nil {
					return err
				}
			}
			return a.recreate(cmd, list)
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "YAML or XML export to rebuild from")
	cmd.Flags().BoolVar(&empty, "empty", false, "Rebuild as an empty glossary")
	cmd.MarkFlagsMutuallyExclusive("from", "empty")
	return cmd
}

func (a *app) newImportCommand() *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "import --file <file>",
		Short: "Replace the glossary with the terms of a YAML or XML export",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			list, err := generator.Import(file)
			if err != nil {
				return err
			}
			return a.recreate(cmd, list)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "YAML or XML export to import (required)")
	cmd.MarkFlagRequired("file")
	return cmd
}

func (a *app) recreate(cmd *cobra.Command, list []model.Term) error {
	if err := a.storage.RecreateStorage(list); err != nil {
		return err
	}
	a.logger.Info("Storage recreated", "path", a.cfg.StoragePath, "terms", len(list))
	fmt.Fprintf(cmd.OutOrStdout(), "Recreated %s with %d term(s)\n", a.cfg.StoragePath, len(list))
	return nil
}

func (a *app) newExportCommand() *cobra.Command {
	var format, outDir, title string
	cmd := &cobra.Command{
		Use:   "export [--format yaml|md|xml] [--out <dir>] [--title <title>]",
		Short: "Export the glossary to a file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := generator.ParseFormat(format)
			if err != nil {
				return err
			}
			list, err := a.storage.LoadTerms()
			if err != nil {
				return err
			}
			path, err := generator.Export(generator.Config{OutDir: outDir, Title: title}, f, list)
			if err != nil {
				return err
			}
			a.logger.Info("Glossary exported", "path", path, "format", f, "terms", len(list))
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d term(s) to %s\n", len(list), path)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", string(generator.FormatYAML), "Export format: yaml, md or xml")
	cmd.Flags().StringVar(&outDir, "out", ".", "Directory to write the export to")
	cmd.Flags().StringVar(&title, "title", "Glossary", "Glossary title, also used for the file name")
	return cmd
}
