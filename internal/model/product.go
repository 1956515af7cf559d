package model

import "io"

type Product struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	Description string `json:"description"`
	Image       string `json:"image"`
}

// ProductInput carries the client-supplied fields of a create or full-replace
// update. Price is a pointer so that "absent" can be told apart from zero.
type ProductInput struct {
	Name        string
	Price       *int64
	Description string
	Image       string
}

// FileUpload is a single file stream taken from a multipart request.
type FileUpload struct {
	Filename string
	Reader   io.Reader
}

type DeleteResult struct {
	DeletedCount int64 `json:"deletedCount"`
}
