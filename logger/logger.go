package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"
)

// Logger buffers log lines in memory and flushes them to a file on an
// interval, so request handling never waits on disk.
type Logger struct {
	path  string
	mu    sync.Mutex
	lines []string
	echo  bool
	stop  chan struct{}
}

func NewLogger(logPath string) *Logger {
	return &Logger{
		path:  logPath,
		lines: make([]string, 0, 64),
		stop:  make(chan struct{}),
	}
}

// SetToPrintToTerminal echoes every line to stdout as it is logged. Set it
// before StartLogger.
func (l *Logger) SetToPrintToTerminal() {
	l.echo = true
}

// StartLogger runs the flush loop; call it in its own goroutine. It returns
// after Close.
func (l *Logger) StartLogger() {
	l.Logf("logger started %s", time.Now().Format(time.RFC3339))
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if err := l.flush(); err != nil {
				fmt.Println("error flushing log:", err)
			}
		case <-l.stop:
			return
		}
	}
}

func (l *Logger) Log(args ...interface{}) {
	l.append(strings.TrimSuffix(fmt.Sprintln(args...), "\n"))
}

func (l *Logger) Logf(format string, args ...interface{}) {
	l.append(fmt.Sprintf(format, args...))
}

func (l *Logger) append(msg string) {
	l.mu.Lock()
	l.lines = append(l.lines, msg)
	echo := l.echo
	l.mu.Unlock()
	if echo {
		fmt.Println(msg)
	}
}

func (l *Logger) flush() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.lines) == 0 {
		return nil
	}
	file, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	defer file.Close()

	for _, line := range l.lines {
		if _, err := file.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	l.lines = l.lines[:0]
	return nil
}

// Close stops the flush loop and writes out anything still buffered.
func (l *Logger) Close() {
	close(l.stop)
	if err := l.flush(); err != nil {
		fmt.Println("error flushing log:", err)
	}
}
