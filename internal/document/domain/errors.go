package domain

import "errors"

var (
	ErrNotFound      = errors.New("document_not_found")
	ErrNotQuote      = errors.New("document_not_quote")
	ErrReceiptLocked = errors.New("receipt_status_locked")
	ErrUnknownType   = errors.New("unknown_document_type")
	ErrItemNotFound  = errors.New("line_item_not_found")
)
