package util

import "errors"

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrPermissionDenied     = errors.New("permission denied")
	ErrSubjectNotFound      = errors.New("subject not found")
	ErrTopicNotFound        = errors.New("topic not found")
	ErrQuestionaryNotFound  = errors.New("questionary not found")
	ErrUserAnswerNotFound   = errors.New("user answer not found")
	ErrAlternativeNotFound  = errors.New("alternative not found")
	ErrAlternativeMismatch  = errors.New("alternative does not belong to the question")
	ErrEmptyQuestionBank    = errors.New("the questions database is empty, provide questions before creating a questionary")
	ErrNoRecipients         = errors.New("no user selected")
	ErrInvalidDate          = errors.New("invalid date")
	ErrInvalidDateRange     = errors.New("end date is before init date")
	ErrInvalidResourceType  = errors.New("invalid resource type")
	ErrInvalidTag           = errors.New("invalid tag")
	ErrReportNotFound       = errors.New("report not found")
	ErrStudentNotInAudience = errors.New("student is not in the questionary audience")
)

// IsNotFound 判断是否为领域层的"不存在"错误
func IsNotFound(err error) bool {
	for _, target := range []error{
		ErrUserNotFound,
		ErrSubjectNotFound,
		ErrTopicNotFound,
		ErrQuestionaryNotFound,
		ErrUserAnswerNotFound,
		ErrAlternativeNotFound,
		ErrReportNotFound,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
