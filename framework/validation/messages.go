package validation

import "sort"

// User-facing messages. The application renders a single French locale.
const (
	MsgRequired          = "Ce champ est obligatoire"
	MsgSelectionRequired = "Vous devez faire une sélection"
	MsgEmail             = "Format d'email invalide (ex: prenom.nom@cy-rh.local)"
	MsgPhone             = "Format de téléphone invalide (ex: 0612345678)"
	MsgNameDigits        = "Le %s ne peut pas contenir uniquement des chiffres"
	MsgNameLetter        = "Le %s doit contenir au moins une lettre"
	MsgNameChars         = "Le %s contient des caractères non autorisés"
	MsgIdentifierFormat  = "Le matricule doit contenir uniquement des lettres majuscules et des chiffres (ex: EMP001)"
	MsgIdentifierLength  = "Le matricule doit contenir au moins 3 caractères"
	MsgNumber            = "Veuillez entrer un nombre valide"
	MsgNumberMin         = "La valeur doit être supérieure ou égale à %s"
	MsgNumberMax         = "La valeur doit être inférieure ou égale à %s"
	MsgDateFormat        = "Format de date invalide (ex: 2024-01-31)"
	MsgDateFuture        = "La date ne peut pas être dans le futur"
	MsgSalaryNumber      = "Le salaire doit être un nombre valide"
	MsgSalaryMin         = "Le salaire doit être d'au moins 1000€"
	MsgSalaryUnrealistic = "Le salaire semble irréaliste"
	MsgFormInvalid       = "Veuillez corriger les erreurs avant de soumettre le formulaire"
)

// Messages holds one message per field key. Later writes replace earlier
// ones, matching the single-message-per-field display.
// JSON output: {"errors": {"field": "msg"}}
type Messages struct {
	Bag map[string]string `json:"errors"`
}

// Set records msg for field.
func (m *Messages) Set(field, msg string) {
	if m.Bag == nil {
		m.Bag = make(map[string]string)
	}
	m.Bag[field] = msg
}

// Delete forgets field.
func (m *Messages) Delete(field string) { delete(m.Bag, field) }

// Has returns true if there are any messages.
func (m Messages) Has() bool { return len(m.Bag) > 0 }

// Get returns the message for a field, "" when none.
func (m Messages) Get(field string) string { return m.Bag[field] }

// Keys returns the field keys in sorted order.
func (m Messages) Keys() []string {
	keys := make([]string, 0, len(m.Bag))
	for k := range m.Bag {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
