package sqlcheck

import (
	"fmt"

	libinjection "github.com/corazawaf/libinjection-go"

	"github.com/sqlmind/sqlmind-engine/pkg/apperrors"
)

// InjectionCheckResult describes a parameter value flagged by libinjection.
type InjectionCheckResult struct {
	Position    int    // 1-based position of the parameter
	Fingerprint string // libinjection fingerprint of the detected pattern
	Value       string // the offending value
}

// CheckParameter runs libinjection against a single bound parameter value.
// Only strings are checked; numbers and booleans cannot carry injection
// patterns. Returns nil when the value is clean.
func CheckParameter(position int, value any) *InjectionCheckResult {
	strValue, ok := value.(string)
	if !ok {
		return nil
	}

	isSQLi, fingerprint := libinjection.IsSQLi(strValue)
	if !isSQLi {
		return nil
	}
	return &InjectionCheckResult{
		Position:    position,
		Fingerprint: string(fingerprint),
		Value:       strValue,
	}
}

// ScreenParams validates every bound parameter before execution. The first
// flagged value fails the whole call with a ValidationError naming the
// parameter position; the finding itself is returned alongside so callers
// can record it for security auditing.
func ScreenParams(params []any) (*InjectionCheckResult, error) {
	for i, value := range params {
		if result := CheckParameter(i+1, value); result != nil {
			return result, apperrors.NewValidationError(
				fmt.Sprintf("parameter %d contains a SQL injection pattern (fingerprint %s)", result.Position, result.Fingerprint),
				"",
			)
		}
	}
	return nil, nil
}
