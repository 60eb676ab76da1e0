// Copyright 2026 The Vessel Authors
// SPDX-License-Identifier: Apache-2.0

package jail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// State is the container state passed to hooks.
type State struct {
	Version     string            `json:"ociVersion"`
	ID          string            `json:"id"`
	Pid         int               `json:"pid"`
	Bundle      string            `json:"bundle"`
	Annotations map[string]string `json:"annotations,omitempty"`
}

// Hook is one lifecycle hook. The set of hook kinds is closed:
// [FuncHook] for in-process callbacks, [CommandHook] for external
// commands. The unexported method seals the interface so the hook
// runner can rely on knowing every variant.
type Hook interface {
	// Run executes the hook against the container state.
	Run(*State) error

	sealedHook()
}

// Hooks are the ordered hook sequences for each lifecycle point. The
// hook runner invokes each sequence in order and stops at the first
// failure.
type Hooks struct {
	// Prestart hooks run after the container is created but before
	// its process starts.
	Prestart []Hook

	// Poststart hooks run after the container process has started.
	Poststart []Hook

	// Poststop hooks run after the container process has exited.
	Poststop []Hook
}

// FuncHook is an in-process hook callback.
type FuncHook struct {
	run func(*State) error
}

// NewFuncHook wraps an in-process callback as a [Hook].
func NewFuncHook(run func(*State) error) FuncHook {
	return FuncHook{run: run}
}

func (f FuncHook) Run(s *State) error {
	if f.run == nil {
		return fmt.Errorf("hook function is nil")
	}
	return f.run(s)
}

func (FuncHook) sealedHook() {}

// Command describes an external command: used both for hooks and for
// a mount's premount/postmount commands.
type Command struct {
	Path string   `json:"path"`
	Args []string `json:"args,omitempty"`
	Env  []string `json:"env,omitempty"`
	Dir  string   `json:"dir,omitempty"`

	// Timeout bounds the command's runtime. Nil waits forever.
	Timeout *time.Duration `json:"timeout,omitempty"`
}

// CommandHook runs an external command with the container state
// serialized as JSON on its stdin.
type CommandHook struct {
	Command
}

// NewCommandHook wraps an external command as a [Hook].
func NewCommandHook(cmd Command) CommandHook {
	return CommandHook{Command: cmd}
}

func (c CommandHook) Run(s *State) error {
	state, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshaling hook state: %w", err)
	}

	ctx := context.Background()
	if c.Timeout != nil {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *c.Timeout)
		defer cancel()
	}

	cmd := exec.CommandContext(ctx, c.Path, c.Args...)
	cmd.Env = c.Env
	cmd.Dir = c.Dir
	cmd.Stdin = bytes.NewReader(state)

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return fmt.Errorf("hook %s timed out after %v", c.Path, *c.Timeout)
		}
		if stderr.Len() > 0 {
			return fmt.Errorf("hook %s: %w: %s", c.Path, err, strings.TrimSpace(stderr.String()))
		}
		return fmt.Errorf("hook %s: %w", c.Path, err)
	}
	return nil
}

func (CommandHook) sealedHook() {}
