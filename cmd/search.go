package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"memberdir/config"
	"memberdir/member"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	searchInput string
	searchQuery string
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search members of a sheet by name or national id",
	Long: `Load one member sheet and print the members whose name contains the query
(case-insensitive) or whose national id contains the query (exact case).

An empty query matches nothing.`,
	Example: `
  # Search by name
  memberdir search -i ./members.csv -q "omar"

  # Search by national id fragment
  memberdir search -i ./members.csv -q 1234
`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadAndValidate()
		if err != nil {
			return err
		}

		session := newSession(*cfg)
		collection, err := loadFile(cmd.Context(), session, searchInput)
		if err != nil {
			return err
		}

		results := session.Search(searchQuery)
		printMembers(os.Stdout, results, cfg.Columns)
		fmt.Printf(
			"Search done. Query: %q, Members: %d, Matches: %d, Rows skipped: %d\n",
			searchQuery,
			collection.Len(),
			len(results),
			collection.RowsSkipped,
		)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().StringVarP(&searchInput, "input", "i", "", "Member sheet to search (required)")
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "Name or national id fragment")
	_ = searchCmd.MarkFlagRequired("input")
}

// printMembers writes one card per member, labelled with the sheet's column names.
func printMembers(w io.Writer, members []member.Member, columns config.ColumnsConfig) {
	title := color.New(color.FgCyan, color.Bold)
	label := color.New(color.Faint)
	role := color.New(color.FgYellow)

	for _, m := range members {
		title.Fprintf(w, "%s", m.FullName)
		fmt.Fprint(w, "  ")
		role.Fprintf(w, "[%s]", m.Role)
		fmt.Fprintln(w)

		fields := []struct {
			name  string
			value string
		}{
			{columns.NationalID, m.NationalID},
			{columns.PhoneNumber, m.PhoneNumber},
			{columns.BirthDate, m.BirthDate},
			{columns.Region, m.Region},
			{columns.University, m.University},
		}
		for _, field := range fields {
			if strings.TrimSpace(field.value) == "" {
				continue
			}
			label.Fprintf(w, "  %s: ", field.name)
			fmt.Fprintln(w, field.value)
		}
		fmt.Fprintln(w)
	}
}
