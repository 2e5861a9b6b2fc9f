package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"

	"codenav/rag"
)

const (
	replPrompt  = ">> "
	goodbye     = "Exiting. Goodbye!"
	maxLineSize = 1024 * 1024
)

var errLineTooLong = errors.New("input line too long")

// runREPL reads one question per line until exit, quit or end of input.
// Blank lines re-prompt. A failed question is reported and the loop goes on.
func runREPL(ctx context.Context, logger *zap.Logger, in io.Reader, out io.Writer, idx asker) error {
	r := bufio.NewReader(in)

	for {
		fmt.Fprint(out, replPrompt)
		line, err := readLine(r, maxLineSize)
		if errors.Is(err, errLineTooLong) {
			logger.Warn("discarded input line", zap.Int("max_bytes", maxLineSize))
			fmt.Fprintf(out, "\nError: %v\n\n---\n\n", err)
			continue
		}
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			if !errors.Is(err, io.EOF) {
				return err
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, goodbye)
			return nil
		}

		query := strings.TrimSpace(line)
		if query == "" {
			continue
		}
		switch strings.ToLower(query) {
		case "exit", "quit":
			fmt.Fprintln(out, goodbye)
			return nil
		}

		ans, err := idx.Ask(ctx, query)
		if err != nil {
			logger.Error("failed to answer question", zap.String("query", query), zap.Error(err))
			fmt.Fprintf(out, "\nError: %v\n\n---\n\n", err)
			continue
		}
		printAnswer(out, ans)
	}
}

func printAnswer(out io.Writer, ans *rag.Answer) {
	fmt.Fprintf(out, "\nAnswer:\n%s\n", ans.Text)
	fmt.Fprint(out, "\nSources:\n")
	for _, p := range ans.SourcePaths() {
		fmt.Fprintf(out, "- %s\n", p)
	}
	fmt.Fprint(out, "\n---\n\n")
}

// readLine returns the next line without its terminator. A line longer than
// limit bytes is consumed through its newline and reported as errLineTooLong.
// A final unterminated line is returned together with io.EOF.
func readLine(r *bufio.Reader, limit int) (string, error) {
	var buf []byte
	tooLong := false
	for {
		frag, err := r.ReadSlice('\n')
		if !tooLong {
			if len(buf)+len(frag) > limit+2 {
				tooLong = true
				buf = nil
			} else {
				buf = append(buf, frag...)
			}
		}
		if errors.Is(err, bufio.ErrBufferFull) {
			continue
		}
		line := strings.TrimRight(string(buf), "\r\n")
		if tooLong || len(line) > limit {
			if err != nil && !errors.Is(err, io.EOF) {
				return "", err
			}
			return "", errLineTooLong
		}
		return line, err
	}
}
