package pipeline

import (
	"bufio"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Prompter 流程中的交互式提问
type Prompter interface {
	// Confirm 只有 y / yes 视为确认，默认否
	Confirm(question string) bool
	// Ask 返回去掉首尾空白的回答
	Ask(question string) string
}

// ConsolePrompter 从终端读取回答，noInput 时直接使用默认回答
type ConsolePrompter struct {
	mu      sync.Mutex
	in      *bufio.Reader
	out     io.Writer
	noInput bool
}

var _ Prompter = (*ConsolePrompter)(nil)

func NewConsolePrompter(in io.Reader, out io.Writer, noInput bool) *ConsolePrompter {
	return &ConsolePrompter{in: bufio.NewReader(in), out: out, noInput: noInput}
}

func (p *ConsolePrompter) Confirm(question string) bool {
	switch strings.ToLower(p.Ask(question + " (y/N)")) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func (p *ConsolePrompter) Ask(question string) string {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.out, "%s: ", question)
	if p.noInput {
		fmt.Fprintln(p.out)
		return ""
	}
	line, err := p.in.ReadString('\n')
	if err != nil && line == "" {
		// EOF 等同于直接回车
		fmt.Fprintln(p.out)
		return ""
	}
	return strings.TrimSpace(line)
}
