package domain

import "errors"

// Domain errors.
var (
	ErrLabelNotFound    = errors.New("label non trouvé")
	ErrVariantNotFound  = errors.New("variante non trouvée")
	ErrStoreUnavailable = errors.New("le store de labels est indisponible")
	ErrEmptyNamespace   = errors.New("le namespace est requis et ne peut pas être vide")
	ErrEmptyDefaultText = errors.New("le texte par défaut est requis et ne peut pas être vide")
	ErrNoAlternatives   = errors.New("une variante doit contenir au moins une alternative")
)
