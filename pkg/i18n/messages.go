package i18n

type Message struct {
	FR string
	EN string
}

var catalog = map[string]Message{
	"app.title":               {FR: "Paiements mobile money", EN: "Mobile money payments"},
	"bulk.title":              {FR: "Paiement de masse", EN: "Bulk payment"},
	"bulk.empty":              {FR: "Aucun bénéficiaire à payer", EN: "No recipients to pay"},
	"bulk.busy":               {FR: "Un paiement de masse est déjà en cours", EN: "A bulk payment is already running"},
	"bulk.confirm":            {FR: "Envoyer %d paiements pour un total de %s", EN: "Send %d payments totaling %s"},
	"bulk.processing":         {FR: "Traitement en cours...", EN: "Processing..."},
	"bulk.completed":          {FR: "Exécution terminée : %d réussis, %d en échec.", EN: "Execution completed: %d successful, %d failed."},
	"bulk.partial":            {FR: "Exécution terminée avec succès partiel : %d réussis, %d en échec.", EN: "Execution completed with partial success: %d successful, %d failed."},
	"bulk.over_limit":         {FR: "Le fichier dépasse la limite de %d lignes", EN: "The file exceeds the %d row limit"},
	"import.invalid_format":   {FR: "Format invalide", EN: "Invalid format"},
	"import.invalid_detail":   {FR: "Veuillez sélectionner un fichier CSV", EN: "Please select a CSV file"},
	"import.empty_file":       {FR: "Fichier vide", EN: "Empty file"},
	"import.empty_detail":     {FR: "Aucun bénéficiaire valide trouvé", EN: "No valid recipient found"},
	"import.loaded":           {FR: "%d bénéficiaires importés", EN: "%d recipients imported"},
	"import.skipped":          {FR: "ligne %d ignorée : %s", EN: "line %d skipped: %s"},
	"status.success":          {FR: "Réussi", EN: "Successful"},
	"status.failed":           {FR: "Échec", EN: "Failed"},
	"status.pending":          {FR: "En attente", EN: "Pending"},
	"status.partial":          {FR: "Partiel", EN: "Partial"},
	"send.success":            {FR: "Paiement envoyé à %s", EN: "Payment sent to %s"},
	"send.failed":             {FR: "Le paiement à %s a échoué", EN: "Payment to %s failed"},
	"history.empty":           {FR: "Aucune transaction", EN: "No transactions"},
	"history.cleared":         {FR: "Historique effacé", EN: "History cleared"},
	"history.confirm_clear":   {FR: "Effacer tout l'historique", EN: "Clear the whole history"},
	"history.stats":           {FR: "%d transactions, %d réussies, %d en échec, total %s", EN: "%d transactions, %d successful, %d failed, total %s"},
	"export.saved":            {FR: "Rapport enregistré : %s", EN: "Report saved: %s"},
	"lang.current":            {FR: "Langue : français", EN: "Language: English"},
	"notify.bulk.title":       {FR: "Paiements de masse terminés", EN: "Bulk payments completed"},
	"notify.bulk.body":        {FR: "%d réussis, %d échecs • Total %s FCFA", EN: "%d successful, %d failed • Total %s FCFA"},
	"notify.individual.title": {FR: "Paiement effectué", EN: "Payment sent"},
	"notify.individual.body":  {FR: "%s a reçu %s FCFA", EN: "%s received %s FCFA"},
	"form.phone":              {FR: "Numéro de téléphone", EN: "Phone number"},
	"form.name":               {FR: "Nom complet", EN: "Full name"},
	"form.amount":             {FR: "Montant (FCFA)", EN: "Amount (FCFA)"},
	"form.invalid_phone":      {FR: "Numéro de téléphone invalide", EN: "Invalid phone number"},
	"form.invalid_amount":     {FR: "Montant invalide", EN: "Invalid amount"},
	"form.name_required":      {FR: "Le nom est requis", EN: "Name is required"},
	"notify.ask":              {FR: "Recevoir une notification à la fin des paiements", EN: "Get notified when payments finish"},
	"edit.title":              {FR: "Modifier les bénéficiaires", EN: "Edit recipients"},
	"edit.continue":           {FR: "Continuer", EN: "Continue"},
	"edit.add":                {FR: "Ajouter un bénéficiaire", EN: "Add a recipient"},
	"edit.change":             {FR: "Modifier un bénéficiaire", EN: "Change a recipient"},
	"edit.remove":             {FR: "Supprimer un bénéficiaire", EN: "Remove a recipient"},
	"edit.select":             {FR: "Bénéficiaire", EN: "Recipient"},
	"send.confirm":            {FR: "Envoyer %s à %s", EN: "Send %s to %s"},
	"sample.saved":            {FR: "Modèle enregistré : %s", EN: "Template saved: %s"},
	"lang.saved":              {FR: "Langue enregistrée", EN: "Language saved"},
}
