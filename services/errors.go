package services

// ServiceError represents a domain error raised by a service operation.
// Controllers translate it into the JSON error envelope using HTTPStatus.
type ServiceError struct {
	Code       string
	Message    string
	HTTPStatus int
}

func (e *ServiceError) Error() string {
	return e.Message
}
