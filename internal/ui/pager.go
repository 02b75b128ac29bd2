package ui

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"
)

// pagerClosedMsg reports the end of a pager session
type pagerClosedMsg struct {
	nctID string
	err   error
}

// recordPager shows a rendered trial record in ov. It satisfies
// tea.ExecCommand so bubbletea releases the terminal while it runs.
type recordPager struct {
	title   string
	content string
}

func (p *recordPager) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(p.content))
	if err != nil {
		return fmt.Errorf("failed to open pager: %w", err)
	}

	// Leave the screen alone on exit, the TUI redraws it
	config := oviewer.NewConfig()
	config.IsWriteOnExit = false
	config.IsWriteOriginal = false
	root.SetConfig(config)
	root.Doc.Caption = p.title

	return root.Run()
}

// ov opens the tty itself
func (p *recordPager) SetStdin(io.Reader)  {}
func (p *recordPager) SetStdout(io.Writer) {}
func (p *recordPager) SetStderr(io.Writer) {}

// openPager hands the loaded trial record to the pager
func (m *Model) openPager() tea.Cmd {
	d := m.state.Detail
	if d == nil {
		return nil
	}
	id := d.NCTID
	p := &recordPager{
		title:   id,
		content: m.detail.Render(*d, m.width),
	}
	return tea.Exec(p, func(err error) tea.Msg {
		return pagerClosedMsg{nctID: id, err: err}
	})
}
