package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-rh-forms/framework/forms"
	"github.com/km-arc/go-rh-forms/framework/validation"
)

// errInvalid makes the process exit non-zero once the messages are printed.
var errInvalid = errors.New("formulaire invalide")

func newCheckCmd(opts *rootOptions) *cobra.Command {
	var (
		formID string
		sets   []string
		output string
	)
	cmd := &cobra.Command{
		Use:   "check <page.html>",
		Short: "Valide un formulaire d'une page HTML",
		Long: `Charge une page, lie le moteur de validation au formulaire, saisit
les valeurs données par --set puis soumet le formulaire.

Sans --form, tous les formulaires ayant un id et une action sont validés.`,
		Example: `  rhforms check employee.html --form employeeForm --set salaireBase=500
  rhforms check payslip.html --set mois=13 --output annotated.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := readDocument(args[0])
			if err != nil {
				return err
			}
			kinds, err := opts.loadKinds()
			if err != nil {
				return err
			}
			values := make(map[string]string, len(sets))
			for _, s := range sets {
				k, v, err := splitPair(s)
				if err != nil {
					return err
				}
				values[k] = v
			}

			var engines []*forms.Engine
			if formID != "" {
				engines = []*forms.Engine{forms.New(doc, formID, forms.WithKinds(kinds))}
			} else {
				engines = forms.BindAll(doc, forms.WithKinds(kinds))
			}

			out := cmd.OutOrStdout()
			valid := true
			for _, eng := range engines {
				if !eng.Active() {
					return fmt.Errorf("formulaire #%s introuvable", eng.FormID())
				}
				for k, v := range values {
					// A key absent from this form may belong to another one.
					_ = eng.Input(k, v)
				}
				res := eng.Submit()
				printResult(cmd, eng.FormID(), res)
				valid = valid && res.Proceed
			}
			if len(engines) == 0 {
				fmt.Fprintln(out, "aucun formulaire à valider")
			}

			if output != "" {
				if err := writeDocument(output, doc); err != nil {
					return err
				}
			}
			if !valid {
				return errInvalid
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&formID, "form", "f", "", "id du formulaire")
	cmd.Flags().StringArrayVarP(&sets, "set", "s", nil, "valeur saisie, clé=valeur (répétable)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "écrit la page annotée dans ce fichier")
	return cmd
}

func printResult(cmd *cobra.Command, formID string, res forms.SubmitResult) {
	out := cmd.OutOrStdout()
	if res.Proceed {
		fmt.Fprintf(out, "#%s (%s): valide\n", formID, res.Kind)
		return
	}
	fmt.Fprintf(out, "#%s (%s): %s\n", formID, res.Kind, validation.MsgFormInvalid)
	for _, key := range res.Messages.Keys() {
		fmt.Fprintf(out, "  %s: %s\n", key, res.Messages.Get(key))
	}
}
