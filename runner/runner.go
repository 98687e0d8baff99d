package runner

import (
	"bufio"
	"context"
	"io"
	"os/exec"
	"regexp"
	"strings"
)

// DefaultShell runs commands when none is configured.
const DefaultShell = "sh"

var paramRegex = regexp.MustCompile(`\{\{(\w+)\}\}`)

// ExtractParams returns the distinct {{param}} names in cmd in first-use order.
func ExtractParams(cmd string) []string {
	matches := paramRegex.FindAllStringSubmatch(cmd, -1)
	seen := make(map[string]bool)
	var params []string
	for _, m := range matches {
		name := m[1]
		if !seen[name] {
			seen[name] = true
			params = append(params, name)
		}
	}
	return params
}

// MissingParams lists params of cmd that have no entry in values.
func MissingParams(cmd string, values map[string]string) []string {
	var missing []string
	for _, name := range ExtractParams(cmd) {
		if _, ok := values[name]; !ok {
			missing = append(missing, name)
		}
	}
	return missing
}

// SubstituteParams replaces {{param}} with provided values. Unknown
// placeholders are left as they are.
func SubstituteParams(cmd string, values map[string]string) string {
	return paramRegex.ReplaceAllStringFunc(cmd, func(m string) string {
		name := strings.TrimSuffix(strings.TrimPrefix(m, "{{"), "}}")
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
}

// OutputMsg is sent through the channel for each line of output
type OutputMsg struct {
	Line   string
	IsErr  bool
	Done   bool
	ErrMsg string
}

// Run executes cmd with `shell -c` and streams its output, closing output
// when the process has exited. The final message has Done set.
func Run(ctx context.Context, shell, cmd string, output chan<- OutputMsg) {
	defer close(output)

	if shell == "" {
		shell = DefaultShell
	}
	c := exec.CommandContext(ctx, shell, "-c", cmd)

	stdout, err := c.StdoutPipe()
	if err != nil {
		output <- OutputMsg{Done: true, ErrMsg: err.Error()}
		return
	}

	stderr, err := c.StderrPipe()
	if err != nil {
		output <- OutputMsg{Done: true, ErrMsg: err.Error()}
		return
	}

	if err := c.Start(); err != nil {
		output <- OutputMsg{Done: true, ErrMsg: err.Error()}
		return
	}

	done := make(chan struct{}, 2)

	streamReader := func(r io.Reader, isErr bool) {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			output <- OutputMsg{Line: scanner.Text(), IsErr: isErr}
		}
		done <- struct{}{}
	}

	go streamReader(stdout, false)
	go streamReader(stderr, true)

	<-done
	<-done

	if err := c.Wait(); err != nil {
		output <- OutputMsg{Done: true, ErrMsg: err.Error()}
		return
	}
	output <- OutputMsg{Done: true}
}
