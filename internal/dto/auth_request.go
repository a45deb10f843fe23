package dto

type RegisterRequest struct {
	Nome          string `json:"nome" binding:"required"`
	Cognome       string `json:"cognome" binding:"required"`
	Email         string `json:"email" binding:"required"`
	DataDiNascita string `json:"dataDiNascita" binding:"required"`
	Password      string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type TokenResponse struct {
	Token string `json:"token"`
}
