package dto

type CreateCommentRequest struct {
	Text string `json:"text" binding:"required"`
	User string `json:"user" binding:"required"`
}

// UpdateCommentRequest is a partial update. Nil or empty fields keep their
// stored value.
type UpdateCommentRequest struct {
	Text *string `json:"text"`
	User *string `json:"user"`
}
