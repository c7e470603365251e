// file: internal/i18n/messages.go
// version: 1.0.0
// guid: 3e3c250c-3f07-4fed-86e5-d261474d04a2

package i18n

import "github.com/jdfalk/library-catalog/internal/library"

// Presentation-layer message keys.
const (
	MsgFieldRequired        = "%s must not be empty"
	MsgFieldInvalid         = "%s is invalid"
	MsgFieldTooLong         = "%s must be at most %s characters"
	MsgMalformedBody        = "malformed request body"
	MsgInternalError        = "internal server error"
	MsgQueryParamRequired   = "query parameter %s is required"
	MsgInvalidQueryParam    = "invalid value for query parameter %s"
	MsgLoanNotFound         = "loan not found"
	MsgRouteNotFound        = "resource not found"
	MsgTooManyRequests      = "too many requests"
	MsgRequestTooLarge      = "request body too large"
	MsgAuthRequired         = "authentication required"
	MsgStoreUnavailable     = "store unavailable"
	MsgInvalidSortDirection = "invalid sort direction %s"
)

// translations maps each key to its text per locale. English texts equal
// their keys unless listed.
var translations = map[string]map[string]string{
	library.MsgDuplicateCatalogNumber: {
		localePtBR: "ISBN já cadastrado.",
		localeEn:   "ISBN already registered.",
	},
	library.MsgBookRequired: {
		localePtBR: "livro não deve ser nulo",
	},
	library.MsgBookIDRequired: {
		localePtBR: "o identificador do livro deve estar presente",
	},
	library.MsgBookNotFound: {
		localePtBR: "livro não encontrado",
	},
	library.MsgBookNotFoundForISBN: {
		localePtBR: "livro não encontrado para o ISBN %s",
	},
	library.MsgCatalogNumberRequired: {
		localePtBR: "isbn não deve estar vazio",
	},
	library.MsgCustomerRequired: {
		localePtBR: "customer não deve estar vazio",
	},
	library.MsgUnsupportedSortField: {
		localePtBR: "campo de ordenação não suportado: %s",
	},
	library.MsgBookAlreadyLent: {
		localePtBR: "livro já está emprestado",
	},
	MsgFieldRequired: {
		localePtBR: "%s não deve estar vazio",
	},
	MsgFieldInvalid: {
		localePtBR: "%s é inválido",
	},
	MsgFieldTooLong: {
		localePtBR: "%s deve ter no máximo %s caracteres",
	},
	MsgMalformedBody: {
		localePtBR: "corpo da requisição malformado",
	},
	MsgInternalError: {
		localePtBR: "erro interno do servidor",
	},
	MsgQueryParamRequired: {
		localePtBR: "o parâmetro %s é obrigatório",
	},
	MsgInvalidQueryParam: {
		localePtBR: "valor inválido para o parâmetro %s",
	},
	MsgLoanNotFound: {
		localePtBR: "empréstimo não encontrado",
	},
	MsgRouteNotFound: {
		localePtBR: "recurso não encontrado",
	},
	MsgTooManyRequests: {
		localePtBR: "muitas requisições",
	},
	MsgRequestTooLarge: {
		localePtBR: "corpo da requisição muito grande",
	},
	MsgAuthRequired: {
		localePtBR: "autenticação obrigatória",
	},
	MsgStoreUnavailable: {
		localePtBR: "armazenamento indisponível",
	},
	MsgInvalidSortDirection: {
		localePtBR: "direção de ordenação inválida: %s",
	},
}
