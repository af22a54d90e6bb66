package domain

import "errors"

var (
	ErrNotFound            = errors.New("resource not found")
	ErrScanNotFound        = errors.New("scan not found")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrFileTooLarge        = errors.New("file exceeds maximum allowed size")
	ErrDocumentUnreadable  = errors.New("document could not be opened")
	ErrUnknownEngine       = errors.New("unknown document engine")
	ErrNoTableContent      = errors.New("page has no table content")
	ErrPageTimeout         = errors.New("page processing timed out")
	ErrPageOutOfRange      = errors.New("page index out of range")
	ErrUploadFailed        = errors.New("report upload to storage failed")
)
