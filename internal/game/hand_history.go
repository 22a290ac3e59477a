package game

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/coder/quartz"

	"github.com/lox/pokertable/internal/fileutil"
)

// HandHistoryWriter persists the text of one finished round.
type HandHistoryWriter interface {
	WriteHandHistory(handID string, content string) error
}

// FileHandHistoryWriter writes each round to its own file.
type FileHandHistoryWriter struct {
	directory string
}

// NewFileHandHistoryWriter creates a new file-based hand history writer
func NewFileHandHistoryWriter(directory string) *FileHandHistoryWriter {
	return &FileHandHistoryWriter{directory: directory}
}

// WriteHandHistory writes hand history to a file
func (w *FileHandHistoryWriter) WriteHandHistory(handID string, content string) error {
	filename := filepath.Join(w.directory, fmt.Sprintf("hand_%s.txt", handID))
	if err := fileutil.WriteFileAtomic(filename, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write hand history file: %w", err)
	}
	return nil
}

// NoOpHandHistoryWriter discards everything.
type NoOpHandHistoryWriter struct{}

func (NoOpHandHistoryWriter) WriteHandHistory(string, string) error {
	return nil
}

// HandHistory turns a table's event stream into one text record per round.
// It is safe to feed from both request handlers and Subscribe.
type HandHistory struct {
	mu        sync.Mutex
	tableID   string
	writer    HandHistoryWriter
	formatter *EventFormatter
	clock     quartz.Clock

	round int
	lines []string
}

// NewHandHistory creates a recorder for tableID. A nil clock uses the real
// clock.
func NewHandHistory(tableID string, writer HandHistoryWriter, clock quartz.Clock, opts FormattingOptions) *HandHistory {
	if clock == nil {
		clock = quartz.NewReal()
	}
	opts.ShowHoleCards = true
	return &HandHistory{
		tableID:   tableID,
		writer:    writer,
		formatter: NewEventFormatter(opts),
		clock:     clock,
	}
}

// Record appends events and writes the record out when a round ends or
// fails.
func (hh *HandHistory) Record(events []Event) error {
	hh.mu.Lock()
	defer hh.mu.Unlock()

	var errs []error
	for _, e := range events {
		switch e := e.(type) {
		case RoundStartedEvent:
			hh.round = e.Round
			hh.lines = []string{
				fmt.Sprintf("=== HAND %s ===", hh.handID()),
				fmt.Sprintf("Date: %s", hh.clock.Now().UTC().Format("2006-01-02 15:04:05")),
			}
		case RoundFailedEvent:
			if e.Round > 0 {
				hh.round = e.Round
			}
		}

		if line := hh.formatter.Format(e); line != "" {
			hh.lines = append(hh.lines, line)
		}

		switch e.(type) {
		case RoundEndedEvent, RoundFailedEvent:
			if err := hh.flush(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("writing hand history: %w", errs[0])
	}
	return nil
}

func (hh *HandHistory) flush() error {
	if len(hh.lines) == 0 || hh.round == 0 {
		hh.lines = nil
		return nil
	}
	content := strings.Join(append(hh.lines, "=== END HAND ==="), "\n") + "\n"
	hh.lines = nil
	return hh.writer.WriteHandHistory(hh.handID(), content)
}

func (hh *HandHistory) handID() string {
	return fmt.Sprintf("%s-%d", hh.tableID, hh.round)
}
