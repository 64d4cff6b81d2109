package dto

type UserPayload struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

type AuthResponse struct {
	Token string      `json:"token"`
	User  UserPayload `json:"user"`
}

type PredictTimeResponse struct {
	Estimate *float64 `json:"estimate"`
}

type ProcedureResponse struct {
	Procedure string `json:"procedure"`
}

type DeleteResponse struct {
	Success bool `json:"success"`
}
