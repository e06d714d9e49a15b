package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-rh-forms/framework/tables"
)

func newFilterCmd() *cobra.Command {
	var (
		tableID   string
		searchID  string
		container string
		search    string
		columns   []string
		list      bool
		output    string
	)
	cmd := &cobra.Command{
		Use:   "filter <page.html>",
		Short: "Filtre un tableau d'une page HTML",
		Long: `Lie le filtre de tableau à une page, applique la recherche et les
filtres de colonnes, puis affiche les lignes visibles.`,
		Example: `  rhforms filter employees.html --table employeesTable --search dupont
  rhforms filter employees.html --table employeesTable --column 6=CADRE
  rhforms filter employees.html --table employeesTable --columns`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			f := tables.New(doc, tableID, searchID, container)
			if !f.Active() {
				return fmt.Errorf("tableau #%s ou champ de recherche #%s introuvable", tableID, searchID)
			}

			out := cmd.OutOrStdout()
			if list {
				for _, c := range f.Columns() {
					fmt.Fprintf(out, "%d\t%s\t%s\n", c.Index, c.Header, strings.Join(c.Values, " | "))
				}
				return nil
			}

			if search != "" {
				f.Search(search)
			}
			for _, c := range columns {
				n, v, err := splitColumn(c)
				if err != nil {
					return err
				}
				f.Select(n, v)
			}
			rows := f.VisibleRows()
			for _, row := range rows {
				var cells []string
				for _, cell := range row.Children() {
					cells = append(cells, strings.TrimSpace(cell.Text()))
				}
				fmt.Fprintln(out, strings.Join(cells, "\t"))
			}
			fmt.Fprintf(out, "%d ligne(s)\n", len(rows))

			if output != "" {
				return writeDocument(output, doc)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&tableID, "table", "t", "", "id du tableau")
	cmd.Flags().StringVar(&searchID, "search-input", "searchInput", "id du champ de recherche")
	cmd.Flags().StringVar(&container, "container", "filterContainer", "id du conteneur des filtres")
	cmd.Flags().StringVarP(&search, "search", "q", "", "terme de recherche")
	cmd.Flags().StringArrayVarP(&columns, "column", "c", nil, "filtre de colonne, index=valeur (répétable)")
	cmd.Flags().BoolVar(&list, "columns", false, "liste les colonnes filtrables")
	cmd.Flags().StringVarP(&output, "output", "o", "", "écrit la page filtrée dans ce fichier")
	_ = cmd.MarkFlagRequired("table")
	return cmd
}
