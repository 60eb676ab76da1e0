// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

// Action is the outcome applied when a seccomp rule matches (or, for
// the default action, when no rule matches).
type Action int

const (
	ActionKill Action = iota + 1
	ActionKillProcess
	ActionKillThread
	ActionErrno
	ActionTrap
	ActionAllow
	ActionTrace
	ActionLog
	ActionNotify
)

// Operator compares a syscall argument against a rule's values.
type Operator int

const (
	OpEqualTo Operator = iota + 1
	OpNotEqualTo
	OpGreaterThan
	OpGreaterThanOrEqualTo
	OpLessThan
	OpLessThanOrEqualTo
	OpMaskEqualTo
)

// Arg is one argument predicate of a seccomp rule: the argument at
// Index is compared against Value (and ValueTwo for masked
// comparisons) using Op.
type Arg struct {
	Index    uint     `json:"index"`
	Value    uint64   `json:"value"`
	ValueTwo uint64   `json:"value_two"`
	Op       Operator `json:"op"`
}

// Syscall is one seccomp rule: the named syscall, the action taken on
// match, and the argument predicates that gate the match.
type Syscall struct {
	Name   string `json:"name"`
	Action Action `json:"action"`
	Args   []*Arg `json:"args,omitempty"`
}

// Seccomp is the syscall filter policy. Syscalls is ordered: the
// first rule naming a syscall decides its outcome, and syscalls with
// no rule fall back to DefaultAction. The seccomp collaborator
// compiles this into the kernel filter after validation.
type Seccomp struct {
	DefaultAction Action     `json:"default_action"`
	Architectures []string   `json:"architectures,omitempty"`
	Syscalls      []*Syscall `json:"syscalls,omitempty"`
}

// ActionFor returns the action the policy assigns to the named
// syscall: the action of the first rule for that name, or
// DefaultAction when no rule names it. Argument predicates are not
// evaluated here; they narrow the match only inside the compiled
// filter.
func (s *Seccomp) ActionFor(name string) Action {
	for _, rule := range s.Syscalls {
		if rule.Name == name {
			return rule.Action
		}
	}
	return s.DefaultAction
}
