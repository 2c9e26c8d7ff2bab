package i18n

import "github.com/luckyscan/internal/constants"

var messages = map[string]map[string]string{
	constants.LocaleItIT: {
		"success":                         "Operazione completata",
		"error.bad_request":               "Richiesta non valida",
		"error.not_found":                 "Risorsa non trovata",
		"error.internal":                  "Errore interno, riprova più tardi",
		"error.too_many_requests":         "Troppe richieste, riprova più tardi",
		"error.unauthorized":              "Accesso non autorizzato",
		"error.forbidden":                 "Permessi insufficienti",
		"error.jwt_secret_missing":        "Configurazione di autenticazione mancante",
		"error.auth_header_missing":       "Intestazione Authorization mancante",
		"error.auth_header_invalid":       "Intestazione Authorization non valida",
		"error.token_invalid":             "Sessione non valida o scaduta",
		"error.token_revoked":             "Sessione revocata, effettua di nuovo l'accesso",
		"error.login_failed":              "Username o password errati",
		"error.account_disabled":          "Account disattivato",
		"error.password_invalid":          "Password attuale errata",
		"error.password_weak":             "Password troppo debole",
		"error.password_min_length":       "La password deve contenere almeno %d caratteri",
		"error.password_require_upper":    "La password deve contenere una lettera maiuscola",
		"error.password_require_lower":    "La password deve contenere una lettera minuscola",
		"error.password_require_number":   "La password deve contenere un numero",
		"error.password_require_special":  "La password deve contenere un carattere speciale",
		"error.captcha_required":          "Completa la verifica captcha",
		"error.captcha_invalid":           "Captcha non valido",
		"error.captcha_expired":           "Captcha scaduto, richiedine uno nuovo",
		"error.captcha_generate_failed":   "Impossibile generare il captcha",
		"error.token_not_found":           "Codice non valido",
		"error.token_used":                "Questo codice è già stato giocato",
		"error.token_mismatch":            "Il codice non appartiene a questa promozione",
		"error.promotion_inactive":        "La promozione non è attiva",
		"error.promotion_not_found":       "Promozione non trovata",
		"error.promotion_invalid":         "Dati della promozione non validi",
		"error.customer_not_found":        "Partecipante non registrato",
		"error.customer_invalid":          "Dati del partecipante non validi",
		"error.consent_required":          "Devi accettare il regolamento",
		"error.play_failed":               "Giocata non riuscita, riprova",
		"error.prize_not_found":           "Codice premio non trovato",
		"error.prize_already_redeemed":    "Premio già ritirato",
		"error.prize_type_not_found":      "Premio non trovato",
		"error.prize_type_invalid":        "Dati del premio non validi",
		"error.token_batch_invalid":       "Parametri di generazione non validi",
		"error.token_batch_not_found":     "Lotto non trovato",
		"error.export_format_invalid":     "Formato di esportazione non supportato",
		"error.staff_user_not_found":      "Utente non trovato",
		"error.staff_user_exists":         "Username già in uso",
		"error.staff_user_invalid":        "Dati utente non validi",
		"error.staff_user_last_admin":     "Non è possibile rimuovere l'ultimo amministratore",
		"error.dashboard_range_invalid":   "Intervallo di date non valido",
		"error.save_failed":               "Salvataggio non riuscito",
		"error.delete_failed":             "Eliminazione non riuscita",
		"error.reset_failed":              "Reset non riuscito",
		"error.login_too_many":            "Troppi tentativi di accesso, riprova tra %d secondi",
		"error.rate_limited":              "Troppe richieste, riprova tra %d secondi",
		"error.rate_limit_unavailable":    "Servizio temporaneamente non disponibile",
		"error.captcha_unavailable":       "Captcha non disponibile",
		"error.staff_id_invalid":          "Identificativo utente non valido",
		"error.staff_id_type_invalid":     "Identificativo utente in formato errato",
		"play.result_win":                 "Hai vinto!",
		"play.result_loss":                "Non hai vinto, ritenta!",
		"redeem.success":                  "Premio consegnato",
		"redeem.already_redeemed_details": "Premio già ritirato il %s da %s",
	},
	constants.LocaleEnUS: {
		"success":                         "Success",
		"error.bad_request":               "Invalid request",
		"error.not_found":                 "Resource not found",
		"error.internal":                  "Internal error, please try again later",
		"error.too_many_requests":         "Too many requests, please try again later",
		"error.unauthorized":              "Unauthorized",
		"error.forbidden":                 "Forbidden",
		"error.jwt_secret_missing":        "Authentication is not configured",
		"error.auth_header_missing":       "Authorization header is missing",
		"error.auth_header_invalid":       "Authorization header is invalid",
		"error.token_invalid":             "Session is invalid or expired",
		"error.token_revoked":             "Session revoked, please sign in again",
		"error.login_failed":              "Wrong username or password",
		"error.account_disabled":          "Account disabled",
		"error.password_invalid":          "Current password is wrong",
		"error.password_weak":             "Password is too weak",
		"error.password_min_length":       "Password must be at least %d characters",
		"error.password_require_upper":    "Password must contain an uppercase letter",
		"error.password_require_lower":    "Password must contain a lowercase letter",
		"error.password_require_number":   "Password must contain a number",
		"error.password_require_special":  "Password must contain a special character",
		"error.captcha_required":          "Please complete the captcha",
		"error.captcha_invalid":           "Invalid captcha",
		"error.captcha_expired":           "Captcha expired, request a new one",
		"error.captcha_generate_failed":   "Unable to generate captcha",
		"error.token_not_found":           "Invalid code",
		"error.token_used":                "This code has already been played",
		"error.token_mismatch":            "This code does not belong to the promotion",
		"error.promotion_inactive":        "The promotion is not active",
		"error.promotion_not_found":       "Promotion not found",
		"error.promotion_invalid":         "Invalid promotion data",
		"error.customer_not_found":        "Participant is not registered",
		"error.customer_invalid":          "Invalid participant data",
		"error.consent_required":          "You must accept the terms",
		"error.play_failed":               "Play failed, please retry",
		"error.prize_not_found":           "Prize code not found",
		"error.prize_already_redeemed":    "Prize already redeemed",
		"error.prize_type_not_found":      "Prize not found",
		"error.prize_type_invalid":        "Invalid prize data",
		"error.token_batch_invalid":       "Invalid generation parameters",
		"error.token_batch_not_found":     "Batch not found",
		"error.export_format_invalid":     "Unsupported export format",
		"error.staff_user_not_found":      "User not found",
		"error.staff_user_exists":         "Username already taken",
		"error.staff_user_invalid":        "Invalid user data",
		"error.staff_user_last_admin":     "The last administrator cannot be removed",
		"error.dashboard_range_invalid":   "Invalid date range",
		"error.save_failed":               "Save failed",
		"error.delete_failed":             "Delete failed",
		"error.reset_failed":              "Reset failed",
		"error.login_too_many":            "Too many login attempts, retry in %d seconds",
		"error.rate_limited":              "Too many requests, retry in %d seconds",
		"error.rate_limit_unavailable":    "Service temporarily unavailable",
		"error.captcha_unavailable":       "Captcha is not available",
		"error.staff_id_invalid":          "Invalid user identifier",
		"error.staff_id_type_invalid":     "Malformed user identifier",
		"play.result_win":                 "You won!",
		"play.result_loss":                "No win this time, try again!",
		"redeem.success":                  "Prize handed over",
		"redeem.already_redeemed_details": "Prize already redeemed on %s by %s",
	},
}
