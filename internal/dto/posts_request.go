package dto

import "io"

type ReadTimeRequest struct {
	Value float64 `json:"value" form:"readTimeValue" binding:"required,gt=0"`
	Unit  string  `json:"unit" form:"readTimeUnit" binding:"required"`
}

// CreatePostRequest binds from JSON or from a multipart form, where the read
// time comes as flat readTimeValue/readTimeUnit fields.
type CreatePostRequest struct {
	Category string          `json:"category" form:"category" binding:"required"`
	Title    string          `json:"title" form:"title" binding:"required"`
	Cover    string          `json:"cover" form:"coverUrl"`
	ReadTime ReadTimeRequest `json:"readTime"`
	Author   string          `json:"author" form:"author" binding:"required"`
	Content  string          `json:"content" form:"content" binding:"required"`
}

type UpdatePostRequest struct {
	Category *string          `json:"category"`
	Title    *string          `json:"title"`
	Cover    *string          `json:"cover"`
	ReadTime *ReadTimeRequest `json:"readTime"`
	Content  *string          `json:"content"`
}

// Upload is an image received from a multipart form.
type Upload struct {
	File     io.Reader
	Filename string
}
