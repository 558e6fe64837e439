// Package editor launches the configured text editor on an entry file.
package editor

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"runtime"
	"strings"
)

// Launch is a prepared editor process. Wait reports whether the caller
// should block until the editor exits.
type Launch struct {
	Cmd  *exec.Cmd
	Wait bool
}

type editorCommand struct {
	command string
	args    []string
	wait    bool
	silence bool
}

func (cmd editorCommand) launch() *Launch {
	c := exec.Command(cmd.command, cmd.args...)
	if cmd.silence {
		c.Stdout = io.Discard
		c.Stderr = io.Discard
	}
	return &Launch{Cmd: c, Wait: cmd.wait}
}

// LaunchForPath prepares the editor command for path without starting it.
// An empty or "custom" editor falls back to $VISUAL, then $EDITOR.
func LaunchForPath(path, editor, nvimArgs string) (*Launch, error) {
	cmd, err := buildEditorCommand(path, strings.TrimSpace(editor), nvimArgs)
	if err != nil {
		return nil, err
	}
	return cmd.launch(), nil
}

// Open runs the editor on path, attached to the terminal, and waits for it
// to exit when the editor supports waiting.
func Open(path, editor, nvimArgs string) error {
	launch, err := LaunchForPath(path, editor, nvimArgs)
	if err != nil {
		return err
	}

	if launch.Cmd.Stdin == nil {
		launch.Cmd.Stdin = os.Stdin
	}
	if launch.Cmd.Stdout == nil {
		launch.Cmd.Stdout = os.Stdout
	}
	if launch.Cmd.Stderr == nil {
		launch.Cmd.Stderr = os.Stderr
	}

	if err := launch.Cmd.Start(); err != nil {
		return fmt.Errorf("error starting editor: %w", err)
	}
	if !launch.Wait {
		return nil
	}
	if err := launch.Cmd.Wait(); err != nil {
		return fmt.Errorf("error waiting for editor to close: %w", err)
	}
	return nil
}

// IsTerminalEditor reports whether editor runs inside the current terminal.
func IsTerminalEditor(editor string) bool {
	switch editor {
	case "nvim", "vim", "nano":
		return true
	}
	return false
}

func buildEditorCommand(path, editor, nvimArgs string) (*editorCommand, error) {
	switch editor {
	case "nvim":
		return buildNvimCommand(path, nvimArgs), nil
	case "vim":
		return &editorCommand{command: "vim", args: []string{path}, wait: true}, nil
	case "nano":
		return &editorCommand{command: "nano", args: []string{path}, wait: true}, nil
	case "vscode", "code":
		return buildVSCodeCommand(path)
	case "custom", "":
		return buildEnvCommand(path)
	default:
		return nil, fmt.Errorf("unsupported editor: %s", editor)
	}
}

func buildNvimCommand(path, extra string) *editorCommand {
	args := []string{"nvim"}
	if extra = strings.TrimSpace(extra); extra != "" {
		args = append(args, strings.Fields(extra)...)
	}
	args = append(args, path)
	return &editorCommand{command: args[0], args: args[1:], wait: true}
}

func buildVSCodeCommand(path string) (*editorCommand, error) {
	switch runtime.GOOS {
	case "darwin", "linux":
		return &editorCommand{command: "code", args: []string{"--wait", path}, wait: true, silence: true}, nil
	case "windows":
		return &editorCommand{command: "cmd", args: []string{"/c", "code", "--wait", path}, wait: true, silence: true}, nil
	default:
		return nil, fmt.Errorf("unsupported operating system: %s", runtime.GOOS)
	}
}

func buildEnvCommand(path string) (*editorCommand, error) {
	for _, key := range []string{"VISUAL", "EDITOR"} {
		fields := strings.Fields(os.Getenv(key))
		if len(fields) > 0 {
			return &editorCommand{command: fields[0], args: append(fields[1:], path), wait: true}, nil
		}
	}
	return nil, errors.New("editor not configured: set editor in the config file or $EDITOR")
}
