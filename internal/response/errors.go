package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrTokenExpired       ErrCode = "TOKEN_EXPIRED"

	// ─── Authorization ─────────────────────────────────────────────────
	ErrForbidden         ErrCode = "FORBIDDEN"
	ErrStudentAccessOnly ErrCode = "STUDENT_ACCESS_ONLY"
	ErrAdminAccessOnly   ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidID      ErrCode = "INVALID_ID"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound ErrCode = "NOT_FOUND"
	ErrConflict ErrCode = "CONFLICT"

	// ─── Exam lifecycle ────────────────────────────────────────────────
	ErrExamNotPublished  ErrCode = "EXAM_NOT_PUBLISHED"
	ErrExamNotDraft      ErrCode = "EXAM_NOT_DRAFT"
	ErrNoQuestions       ErrCode = "NO_QUESTIONS"
	ErrAttemptInProgress ErrCode = "ATTEMPT_IN_PROGRESS"
	ErrAlreadySubmitted  ErrCode = "ALREADY_SUBMITTED"
	ErrAttemptNotActive  ErrCode = "ATTEMPT_NOT_ACTIVE"
	ErrAnswerNotGradable ErrCode = "ANSWER_NOT_GRADABLE"

	// ─── Jobs & courses ────────────────────────────────────────────────
	ErrNotEligible      ErrCode = "NOT_ELIGIBLE"
	ErrDeadlinePassed   ErrCode = "DEADLINE_PASSED"
	ErrAlreadyApplied   ErrCode = "ALREADY_APPLIED"
	ErrAlreadyEnrolled  ErrCode = "ALREADY_ENROLLED"
	ErrNotEnrolled      ErrCode = "NOT_ENROLLED"

	// ─── Proctoring ────────────────────────────────────────────────────
	ErrFrameRequired ErrCode = "FRAME_REQUIRED"
	ErrFrameTooLarge ErrCode = "FRAME_TOO_LARGE"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server / dependencies ─────────────────────────────────────────
	ErrDependencyFailure ErrCode = "DEPENDENCY_FAILURE"
	ErrInternal          ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Invalid email or password."
	case ErrTokenRequired:
		return "Authentication token is required."
	case ErrTokenInvalid:
		return "Authentication token is invalid."
	case ErrTokenExpired:
		return "Authentication token has expired."

	// ─── Authorization ─────────────────────────────────────────────────
	case ErrForbidden:
		return "You do not have permission to access this resource."
	case ErrStudentAccessOnly:
		return "This resource is restricted to students."
	case ErrAdminAccessOnly:
		return "This resource is restricted to administrators."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Validation failed. Please check your input."
	case ErrInvalidID:
		return "Invalid ID format."
	case ErrInvalidPayload:
		return "Invalid request payload."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "Resource not found."
	case ErrConflict:
		return "Resource already exists."

	// ─── Exam lifecycle ────────────────────────────────────────────────
	case ErrExamNotPublished:
		return "This exam has not been published yet."
	case ErrExamNotDraft:
		return "This exam is no longer in draft status."
	case ErrNoQuestions:
		return "This exam has no questions."
	case ErrAttemptInProgress:
		return "An attempt for this exam is already in progress."
	case ErrAlreadySubmitted:
		return "This attempt has already been submitted."
	case ErrAttemptNotActive:
		return "This attempt is not in progress."
	case ErrAnswerNotGradable:
		return "Only coding answers can be manually evaluated."

	// ─── Jobs & courses ────────────────────────────────────────────────
	case ErrNotEligible:
		return "You are not eligible for this job."
	case ErrDeadlinePassed:
		return "The application deadline has passed."
	case ErrAlreadyApplied:
		return "You have already applied to this job."
	case ErrAlreadyEnrolled:
		return "You are already enrolled in this course."
	case ErrNotEnrolled:
		return "You are not enrolled in this course."

	// ─── Proctoring ────────────────────────────────────────────────────
	case ErrFrameRequired:
		return "A webcam frame upload is required."
	case ErrFrameTooLarge:
		return "The uploaded frame exceeds the size limit."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please try again later."

	// ─── Server / dependencies ─────────────────────────────────────────
	case ErrDependencyFailure:
		return "A required backing service is unavailable."
	case ErrInternal:
		return "An internal server error occurred."
	default:
		return "An unexpected error occurred."
	}
}
