package params

type SetPinRequest struct {
	Pin string `json:"pin" validate:"required,len=4,numeric"`
}

type ChangePinRequest struct {
	CurrentPin string `json:"current_pin" validate:"required,len=4,numeric"`
	NewPin     string `json:"new_pin" validate:"required,len=4,numeric"`
}
