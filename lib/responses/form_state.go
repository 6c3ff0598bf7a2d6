package responses

// FormState is returned to a form that could not be processed so it can be re-displayed.
// Errors holds the messages of every violated field, keyed by form field name.
type FormState struct {
	Errors  map[string][]string `json:"errors,omitempty"`
	Message string              `json:"message,omitempty"`
}

// AddError appends msg to the errors of field.
func (s *FormState) AddError(field, msg string) {
	if s.Errors == nil {
		s.Errors = map[string][]string{}
	}
	s.Errors[field] = append(s.Errors[field], msg)
}

// MessageResponse is the body of actions that only report an outcome.
type MessageResponse struct {
	Message string `json:"message"`
}
