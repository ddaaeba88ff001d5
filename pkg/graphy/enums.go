package graphy

import "fmt"

// Variable identifies which metric reading a condition is checked against.
// The set is extensible at runtime via Engine.RegisterReader.
type Variable string

const (
	VarFPS          Variable = "fps"
	VarFPSMin       Variable = "fps_min"
	VarFPSMax       Variable = "fps_max"
	VarFPSAvg       Variable = "fps_avg"
	VarRAMAllocated Variable = "ram_allocated"
	VarRAMReserved  Variable = "ram_reserved"
	VarRAMManaged   Variable = "ram_managed"
	VarAudioPeak    Variable = "audio_peak"
)

// Comparator defines the relational operator of a condition.
type Comparator string

const (
	Less         Comparator = "<"
	LessEqual    Comparator = "<="
	Equal        Comparator = "=="
	GreaterEqual Comparator = ">="
	Greater      Comparator = ">"
)

// ConditionLogic determines how a packet's conditions are combined.
type ConditionLogic string

const (
	LogicAll ConditionLogic = "ALL"
	LogicAny ConditionLogic = "ANY"
)

// Severity selects the logging channel a packet's message is dispatched to.
type Severity string

const (
	SeverityLog     Severity = "log"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// ParseVariable validates a built-in variable name. Configuration layers
// should parse strictly so a typo fails at load time instead of silently
// reading 0 every frame.
func ParseVariable(s string) (Variable, error) {
	switch v := Variable(s); v {
	case VarFPS, VarFPSMin, VarFPSMax, VarFPSAvg,
		VarRAMAllocated, VarRAMReserved, VarRAMManaged, VarAudioPeak:
		return v, nil
	default:
		return "", fmt.Errorf("unknown variable %q", s)
	}
}

// ParseComparator validates a comparator symbol.
func ParseComparator(s string) (Comparator, error) {
	switch c := Comparator(s); c {
	case Less, LessEqual, Equal, GreaterEqual, Greater:
		return c, nil
	default:
		return "", fmt.Errorf("unknown comparator %q", s)
	}
}

// ParseLogic validates a combination policy name.
func ParseLogic(s string) (ConditionLogic, error) {
	switch l := ConditionLogic(s); l {
	case LogicAll, LogicAny:
		return l, nil
	default:
		return "", fmt.Errorf("unknown condition logic %q", s)
	}
}

// ParseSeverity validates a message severity name.
func ParseSeverity(s string) (Severity, error) {
	switch sev := Severity(s); sev {
	case SeverityLog, SeverityWarning, SeverityError:
		return sev, nil
	default:
		return "", fmt.Errorf("unknown severity %q", s)
	}
}
