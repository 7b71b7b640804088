package params

import "github.com/shopspring/decimal"

type AirtimeRequest struct {
	MobileNumber string          `json:"mobile_number" validate:"required,min=7,max=15"`
	Network      string          `json:"network" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Pin          string          `json:"pin" validate:"required,len=4,numeric"`
	RequestID    string          `json:"request_id,omitempty" validate:"omitempty,max=100"`
}

type DataRequest struct {
	MobileNumber string          `json:"mobile_number" validate:"required,min=7,max=15"`
	Network      string          `json:"network" validate:"required"`
	PlanCode     string          `json:"plan_code" validate:"required"`
	PlanName     string          `json:"plan_name" validate:"required"`
	Amount       decimal.Decimal `json:"amount"`
	Pin          string          `json:"pin" validate:"required,len=4,numeric"`
	RequestID    string          `json:"request_id,omitempty" validate:"omitempty,max=100"`
}

type ElectricityRequest struct {
	MeterNumber string          `json:"meter_number" validate:"required"`
	Provider    string          `json:"provider" validate:"required"`
	MeterType   string          `json:"meter_type" validate:"required,oneof=Prepaid Postpaid"`
	Amount      decimal.Decimal `json:"amount"`
	Pin         string          `json:"pin" validate:"required,len=4,numeric"`
	RequestID   string          `json:"request_id,omitempty" validate:"omitempty,max=100"`
}

type CableTvRequest struct {
	Provider  string          `json:"provider" validate:"required"`
	IucNumber string          `json:"iuc_number" validate:"required"`
	PlanCode  string          `json:"plan_code" validate:"required"`
	PlanName  string          `json:"plan_name" validate:"required"`
	Amount    decimal.Decimal `json:"amount"`
	Pin       string          `json:"pin" validate:"required,len=4,numeric"`
	RequestID string          `json:"request_id,omitempty" validate:"omitempty,max=100"`
}

type ExamPinRequest struct {
	Provider  string          `json:"provider" validate:"required"`
	Quantity  int             `json:"quantity" validate:"required,min=1,max=50"`
	Amount    decimal.Decimal `json:"amount"`
	Pin       string          `json:"pin" validate:"required,len=4,numeric"`
	RequestID string          `json:"request_id,omitempty" validate:"omitempty,max=100"`
}

type RechargePinRequest struct {
	Network      string          `json:"network" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,min=1,max=100"`
	Plan         string          `json:"plan" validate:"required"`
	BusinessName string          `json:"businessname" validate:"required,max=100"`
	Amount       decimal.Decimal `json:"amount"`
	Pin          string          `json:"pin" validate:"required,len=4,numeric"`
	RequestID    string          `json:"request_id,omitempty" validate:"omitempty,max=100"`
}

type DataPinRequest struct {
	Network      string          `json:"network" validate:"required"`
	Quantity     int             `json:"quantity" validate:"required,min=1,max=100"`
	DataPlan     string          `json:"data_plan" validate:"required"`
	BusinessName string          `json:"businessname" validate:"required,max=100"`
	Amount       decimal.Decimal `json:"amount"`
	Pin          string          `json:"pin" validate:"required,len=4,numeric"`
	RequestID    string          `json:"request_id,omitempty" validate:"omitempty,max=100"`
}
