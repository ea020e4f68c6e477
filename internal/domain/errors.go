package domain

import "errors"

var (
	ErrSessionNotFound   = errors.New("session not found")
	ErrKeyNotFound       = errors.New("key not found")
	ErrNoFileSelected    = errors.New("no file selected")
	ErrUploadInProgress  = errors.New("upload already in progress")
	ErrUploadTransport   = errors.New("upload transport failure")
	ErrUploadRejected    = errors.New("upload rejected")
	ErrChatTransport     = errors.New("chat transport failure")
	ErrChatRejected      = errors.New("chat rejected")
	ErrMalformedResponse = errors.New("malformed response")
)
