package main

import (
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/gorewood/gy/internal/config"
	"github.com/gorewood/gy/internal/llm"
	"github.com/gorewood/gy/internal/output"
)

// newModelsCmd creates the models command.
func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List model aliases",
		Long: `List the model aliases accepted by --model.

Any other value is sent to the API unchanged, so full model names work too.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			printer := output.NewPrinter(cmd.OutOrStdout(), isJSONMode(cmd), useColor(cmd))
			return runModels(printer)
		},
	}
}

// runModels lists aliases and marks the model used when --model is omitted.
func runModels(printer *output.Printer) error {
	current := llm.ResolveModel(config.ResolveModel("", llm.DefaultModel))
	pairs := sortedAliases(llm.ModelAliases())

	if printer.IsJSON() {
		type jsonAlias struct {
			Alias string `json:"alias"`
			Model string `json:"model"`
		}
		aliases := make([]jsonAlias, 0, len(pairs))
		for _, a := range pairs {
			aliases = append(aliases, jsonAlias{Alias: a[0], Model: a[1]})
		}
		return printer.Success(map[string]any{"default": current, "aliases": aliases})
	}

	rows := make([][]string, 0, len(pairs))
	for _, a := range pairs {
		mark := ""
		if a[1] == current {
			mark = "*"
		}
		rows = append(rows, []string{a[0], a[1], mark})
	}
	printer.Table([]string{"ALIAS", "MODEL", "DEFAULT"}, rows)
	return nil
}

// sortedAliases returns alias→model pairs sorted by alias name.
func sortedAliases(aliases map[string]string) [][2]string {
	pairs := make([][2]string, 0, len(aliases))
	for alias, model := range aliases {
		pairs = append(pairs, [2]string{alias, model})
	}
	slices.SortFunc(pairs, func(a, b [2]string) int {
		return strings.Compare(a[0], b[0])
	})
	return pairs
}
