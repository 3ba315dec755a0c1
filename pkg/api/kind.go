package api

// Kind identifies the variant of a State.
type Kind int

const (
	KindPass Kind = iota + 1
	KindTask
	KindChoice
	KindWait
	KindSucceed
	KindFail
	KindParallel
	KindMap
	KindCustom
)

// String returns the ASL "Type" tag of the kind. Custom states carry their
// own tag and report "Custom" here.
func (k Kind) String() string {
	switch k {
	case KindPass:
		return "Pass"
	case KindTask:
		return "Task"
	case KindChoice:
		return "Choice"
	case KindWait:
		return "Wait"
	case KindSucceed:
		return "Succeed"
	case KindFail:
		return "Fail"
	case KindParallel:
		return "Parallel"
	case KindMap:
		return "Map"
	case KindCustom:
		return "Custom"
	default:
		return "Unknown"
	}
}

// hasTransition reports whether states of this kind carry Next or End.
// Choice states route through rules and a default instead.
func (k Kind) hasTransition() bool {
	switch k {
	case KindPass, KindTask, KindWait, KindParallel, KindMap, KindCustom:
		return true
	default:
		return false
	}
}

// inherentlyTerminal reports whether states of this kind never transition.
func (k Kind) inherentlyTerminal() bool {
	return k == KindSucceed || k == KindFail
}

// supportsErrorHandling reports whether Retry and Catch may be attached.
func (k Kind) supportsErrorHandling() bool {
	switch k {
	case KindTask, KindParallel, KindMap, KindCustom:
		return true
	default:
		return false
	}
}
