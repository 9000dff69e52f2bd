package facilitator

// ErrorResponse is the facilitator's failure body. Implementations disagree on the
// field name so both are read.
type ErrorResponse struct {
	Err           string `json:"error"`
	Message       string `json:"message"`
	InvalidReason string `json:"invalidReason"`
}

func (e ErrorResponse) message() string {
	switch {
	case e.Err != "":
		return e.Err
	case e.InvalidReason != "":
		return e.InvalidReason
	default:
		return e.Message
	}
}
