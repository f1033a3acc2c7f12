package action

import "fmt"

// Error codes surfaced in validation errors and failed results.
const (
	CodeInvalidType        = "INVALID_TYPE"
	CodeInvalidParams      = "INVALID_PARAMS"
	CodeUnknownActionType  = "UNKNOWN_ACTION_TYPE"
	CodeTrackNotFound      = "TRACK_NOT_FOUND"
	CodeClipNotFound       = "CLIP_NOT_FOUND"
	CodeMediaNotFound      = "MEDIA_NOT_FOUND"
	CodeEffectNotFound     = "EFFECT_NOT_FOUND"
	CodeKeyframeNotFound   = "KEYFRAME_NOT_FOUND"
	CodeTransitionNotFound = "TRANSITION_NOT_FOUND"
	CodeSubtitleNotFound   = "SUBTITLE_NOT_FOUND"
	CodeTrackLocked        = "TRACK_LOCKED"
	CodeOutOfBounds        = "OUT_OF_BOUNDS"
	CodeInvalidTimeRange   = "INVALID_TIME_RANGE"
	CodeClipsNotAdjacent   = "CLIPS_NOT_ADJACENT"
	CodeDuplicateKeyframe  = "DUPLICATE_KEYFRAME"
	CodeHistoryEmpty       = "HISTORY_EMPTY"
	CodeNoInverse          = "NO_INVERSE"
	CodeCancelled          = "CANCELLED"
)

// ValidationError describes one violated rule. Path names the offending
// param when there is one.
type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Path    string `json:"path,omitempty"`
}

func (e ValidationError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Code, e.Message, e.Path)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

// DetailCodes lists the codes of the validation errors carried in Details.
func (e *ErrorInfo) DetailCodes() []string {
	errs, _ := e.Details.([]ValidationError)
	codes := make([]string, len(errs))
	for i, ve := range errs {
		codes[i] = ve.Code
	}
	return codes
}

// Result is the outcome of execute, undo and redo. Exactly one of ActionID
// and Error is meaningful, selected by Success.
type Result struct {
	Success  bool       `json:"success"`
	ActionID string     `json:"actionId,omitempty"`
	Error    *ErrorInfo `json:"error,omitempty"`
}

func Succeeded(actionID string) Result {
	return Result{Success: true, ActionID: actionID}
}

func Failed(code, message string, details any) Result {
	return Result{Error: &ErrorInfo{Code: code, Message: message, Details: details}}
}
