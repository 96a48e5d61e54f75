package sg

import (
	"fmt"
	"slices"
)

// AccessibilityAction is a custom action advertised to assistive technology.
type AccessibilityAction struct {
	Name    string
	Label   string
	Enabled bool
}

// AdjustableRange bounds the value of an adjustable control.
type AdjustableRange struct {
	Min     float64
	Max     float64
	Current float64
}

// Accessibility is the block of accessibility information attached to a
// layer.
type Accessibility struct {
	label           string
	role            string
	actions         []AccessibilityAction
	adjustableRange *AdjustableRange
	adjustableValue string
	executor        func(name string)
}

// NewAccessibility returns an accessibility block. The executor is called
// when an action is invoked; it may be nil.
func NewAccessibility(executor func(name string)) *Accessibility {
	return &Accessibility{executor: executor}
}

func (a *Accessibility) Label() string {
	return a.label
}

func (a *Accessibility) SetLabel(label string) {
	a.label = label
}

func (a *Accessibility) Role() string {
	return a.role
}

func (a *Accessibility) SetRole(role string) {
	a.role = role
}

func (a *Accessibility) Actions() []AccessibilityAction {
	return a.actions
}

// AppendAction adds an action. Later actions with a duplicate name are kept
// but never found by Action.
func (a *Accessibility) AppendAction(name, label string, enabled bool) {
	a.actions = append(a.actions, AccessibilityAction{Name: name, Label: label, Enabled: enabled})
}

// Action returns the first action with the given name.
func (a *Accessibility) Action(name string) (AccessibilityAction, bool) {
	for _, action := range a.actions {
		if action.Name == name {
			return action, true
		}
	}
	return AccessibilityAction{}, false
}

func (a *Accessibility) AdjustableRange() *AdjustableRange {
	return a.adjustableRange
}

func (a *Accessibility) SetAdjustableRange(r *AdjustableRange) {
	a.adjustableRange = r
}

func (a *Accessibility) AdjustableValue() string {
	return a.adjustableValue
}

func (a *Accessibility) SetAdjustableValue(value string) {
	a.adjustableValue = value
}

// Execute invokes the named action if it exists and is enabled.
func (a *Accessibility) Execute(name string) bool {
	action, ok := a.Action(name)
	if !ok || !action.Enabled || a.executor == nil {
		return false
	}
	a.executor(name)
	return true
}

func (a *Accessibility) String() string {
	return fmt.Sprintf("Accessibility label=%q role=%q actions=%d", a.label, a.role, len(a.actions))
}

// AccessibilityEqual compares everything but the executor. Two nil blocks
// are equal.
func AccessibilityEqual(a, b *Accessibility) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.label != b.label || a.role != b.role || a.adjustableValue != b.adjustableValue {
		return false
	}
	if (a.adjustableRange == nil) != (b.adjustableRange == nil) {
		return false
	}
	if a.adjustableRange != nil && *a.adjustableRange != *b.adjustableRange {
		return false
	}
	return slices.Equal(a.actions, b.actions)
}
