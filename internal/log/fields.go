package log

// Canonical field names.
const (
	FieldComponent  = "component"
	FieldRequestID  = "request_id"
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldDuration   = "duration"
	FieldQuestionID = "question_id"
	FieldChoiceID   = "choice_id"
)
