package form

import "github.com/ayusman/repcoach/internal/pose"

// Severity indicates how serious a failed check is.
type Severity string

const (
	// SeverityInfo marks a passing or advisory result.
	SeverityInfo Severity = "info"
	// SeverityWarning marks a failed check the user should correct.
	SeverityWarning Severity = "warning"
)

// CheckResult is the outcome of one form check against one frame.
type CheckResult struct {
	Name     string   `json:"name"`
	Pass     bool     `json:"pass"`
	Severity Severity `json:"severity"`
	Score    float64  `json:"score"`
	Message  string   `json:"message,omitempty"`
}

// CheckFunc is a pure form check evaluated against a single frame.
type CheckFunc func(f *pose.Frame) CheckResult

// Rule binds a named check to the feedback message an exercise wants spoken
// when the check fails. An empty message keeps the check's default.
type Rule struct {
	Check   string `json:"check" toml:"check"`
	Message string `json:"message,omitempty" toml:"message"`
}

var checksByName = map[string]CheckFunc{
	CheckShoulderLevel:  ShoulderLevel,
	CheckElbowStraight:  ElbowStraight,
	CheckElbowBent:      ElbowBent,
	CheckSpineAlignment: SpineAlignment,
	CheckKneeOverAnkle:  KneeOverAnkle,
	CheckHeadNeutral:    HeadNeutral,
	CheckSideSymmetry:   SideSymmetry,
}

// CheckByName returns the check function registered under name.
func CheckByName(name string) (CheckFunc, bool) {
	fn, ok := checksByName[name]
	return fn, ok
}

// Result aggregates every evaluated check for one frame.
type Result struct {
	// Score is the average score across all evaluated checks, not the
	// worst one; a single slipping check should not zero out the whole
	// frame.
	Score float64 `json:"score"`
	// Worst is the most offending check: failures before passes, and
	// among failures the lower score.
	Worst  CheckResult   `json:"worst"`
	Checks []CheckResult `json:"checks,omitempty"`
}

// worseThan reports whether a is a worse result than b.
func worseThan(a, b CheckResult) bool {
	if a.Pass != b.Pass {
		return !a.Pass
	}
	return a.Score < b.Score
}

// RunChecks evaluates every configured rule against the frame. Rules naming
// an unknown check are skipped; configs are validated at construction so this
// only guards hand-built rule lists.
func RunChecks(f *pose.Frame, rules []Rule) Result {
	result := Result{Score: 1, Worst: CheckResult{Pass: true, Severity: SeverityInfo, Score: 1}}

	var total float64
	evaluated := 0
	for _, rule := range rules {
		fn, ok := checksByName[rule.Check]
		if !ok {
			continue
		}

		cr := fn(f)
		if !cr.Pass && rule.Message != "" {
			cr.Message = rule.Message
		}

		result.Checks = append(result.Checks, cr)
		total += cr.Score
		evaluated++

		if evaluated == 1 || worseThan(cr, result.Worst) {
			result.Worst = cr
		}
	}

	if evaluated > 0 {
		result.Score = total / float64(evaluated)
	}
	return result
}
