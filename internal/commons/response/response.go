package response

import "net/http"

type CustomError struct {
	StatusCode     int         `json:"-"`
	Status         bool        `json:"status"`
	Code           string      `json:"code,omitempty"`
	Message        string      `json:"message"`
	AdditionalInfo interface{} `json:"additional_info,omitempty"`
}

func (e *CustomError) Error() string {
	return e.Message
}

type Success struct {
	StatusCode int         `json:"-"`
	Status     bool        `json:"status"`
	Message    string      `json:"message"`
	Payload    interface{} `json:"data,omitempty"`
}

func newError(statusCode int, code, message string) *CustomError {
	return &CustomError{
		StatusCode: statusCode,
		Status:     false,
		Code:       code,
		Message:    message,
	}
}

func BadRequestError(message string) *CustomError {
	return newError(http.StatusBadRequest, CodeValidationError, message)
}

func BadRequestErrorWithCode(code, message string) *CustomError {
	return newError(http.StatusBadRequest, code, message)
}

func NotFoundError(message string) *CustomError {
	return newError(http.StatusNotFound, CodeWalletNotFound, message)
}

func NotFoundErrorWithCode(code, message string) *CustomError {
	return newError(http.StatusNotFound, code, message)
}

func UnauthorizedError(message string) *CustomError {
	return newError(http.StatusUnauthorized, CodeUnauthorized, message)
}

func UnauthorizedErrorWithAdditionalInfo(additionalInfo interface{}, message ...string) *CustomError {
	msg := "Unauthorized"
	if len(message) > 0 {
		msg = message[0]
	}
	err := newError(http.StatusUnauthorized, CodeUnauthorized, msg)
	err.AdditionalInfo = additionalInfo
	return err
}

func UnauthorizedErrorWithCode(code, message string) *CustomError {
	return newError(http.StatusUnauthorized, code, message)
}

func RepositoryError(message string) *CustomError {
	return newError(http.StatusInternalServerError, CodeServerError, message)
}

func GeneralError(message string) *CustomError {
	return newError(http.StatusInternalServerError, CodeServerError, message)
}

func ProviderError(message string) *CustomError {
	return newError(http.StatusBadGateway, CodeProviderError, message)
}

func GeneralSuccess() *Success {
	return &Success{
		StatusCode: http.StatusOK,
		Status:     true,
		Message:    "success",
	}
}

func GeneralSuccessCustomMessageAndPayload(message string, payload interface{}) *Success {
	return &Success{
		StatusCode: http.StatusOK,
		Status:     true,
		Message:    message,
		Payload:    payload,
	}
}

func CreatedSuccessWithPayload(payload interface{}) *Success {
	return &Success{
		StatusCode: http.StatusCreated,
		Status:     true,
		Message:    "created",
		Payload:    payload,
	}
}
